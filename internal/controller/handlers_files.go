// internal/controller/handlers_files.go
package controller

import (
	"context"
	"fmt"

	"github.com/wheelhouse-ai/wheelhouse/api/schemas"
)

func handleWriteFile(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.WriteFileParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	if p.Append {
		if err := inv.Deps.Files.Append(ctx, p.FileName, p.Content); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Appended %d bytes to %s.", len(p.Content), p.FileName), nil
	}
	if err := inv.Deps.Files.Write(ctx, p.FileName, p.Content); err != nil {
		return nil, err
	}
	return fmt.Sprintf("Wrote %d bytes to %s.", len(p.Content), p.FileName), nil
}

func handleReadFile(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.ReadFileParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	content, err := inv.Deps.Files.Read(ctx, p.FileName)
	if err != nil {
		return nil, err
	}
	return &schemas.ActionResult{
		Content: content,
		Memory:  fmt.Sprintf("Read file %s (%d bytes).", p.FileName, len(content)),
	}, nil
}

func handleReplaceFileStr(ctx context.Context, inv Invocation) (any, error) {
	p, ok := inv.Params.(*schemas.ReplaceFileStrParams)
	if !ok {
		return nil, fmt.Errorf("unexpected params type %T", inv.Params)
	}
	count, err := inv.Deps.Files.ReplaceString(ctx, p.FileName, p.OldStr, p.NewStr)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, schemas.NewBrowserError(
			fmt.Sprintf("String %q not found in %s; nothing replaced.", p.OldStr, p.FileName))
	}
	return fmt.Sprintf("Replaced %d occurrence(s) in %s.", count, p.FileName), nil
}

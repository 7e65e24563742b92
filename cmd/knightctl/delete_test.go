package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knights/internal/knight/models/knighttest"
	"knights/internal/knight/service"
	"knights/internal/knight/store/memory"
	dErrors "knights/pkg/domain-errors"
)

func TestDeleteCmdArgs(t *testing.T) {
	cases := map[string]struct {
		args    []string
		wantErr string
	}{
		"missing id":   {args: []string{"delete"}, wantErr: "accepts 1 arg"},
		"extra arg":    {args: []string{"delete", "a", "b"}, wantErr: "accepts 1 arg"},
		"malformed id": {args: []string{"delete", "not-a-knight"}, wantErr: "24-character hex string"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tc.args)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRunDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	k := knighttest.New(t)
	require.NoError(t, store.Insert(ctx, k))

	svc, err := service.New(store, service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runDelete(ctx, svc, &out, k.ID()))
	assert.Equal(t, "deleted knight "+k.ID().String()+"\n", out.String())
	assert.Equal(t, 0, store.Len())

	err = runDelete(ctx, svc, &out, k.ID())
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

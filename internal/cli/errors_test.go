package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pmachovec/asciipinyin/pkg/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"user", userError(errors.New("bad")), exitUserError},
		{"system", sysError(errors.New("disk")), exitSysError},
		{"wrapped system", fmt.Errorf("ctx: %w", sysError(errors.New("disk"))), exitSysError},
		{"rejection", userError(errReported), exitUserError},
		{"cobra usage", errors.New("unknown flag: --x"), exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get: %w", types.ErrNotFound), exitUserError},
		{"invalid data", types.ErrInvalidData, exitUserError},
		{"invalid filter", types.ErrInvalidFilter, exitUserError},
		{"detached", types.ErrDictionaryDetached, exitSysError},
		{"storage", errors.New("database is locked"), exitSysError},
		{"already classified", userError(errors.New("bad config")), exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(classify(tt.err)))
		})
	}
	assert.NoError(t, classify(nil))
}

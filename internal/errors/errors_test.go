package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gonomo/domain/core"
)

func TestWrap_PreservesCode(t *testing.T) {
	base := InvalidInput("bad filter")
	wrapped := Wrap(base, "decoding request")

	assert.Equal(t, CodeInvalidInput, Classify(wrapped))
	assert.Contains(t, wrapped.Error(), "decoding request")
	assert.Nil(t, Wrap(nil, "noop"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"app error", NotFound("session", nil), CodeNotFound},
		{"data source", core.NewDataSourceError("x.xlsx", fmt.Errorf("corrupt")), CodeDataSource},
		{"missing column", core.NewMissingColumnError("Edad"), CodeMissingColumn},
		{"insufficient", core.NewInsufficientDataError("one group"), CodeInsufficientData},
		{"session", fmt.Errorf("lookup: %w", core.ErrSessionNotFound), CodeNotFound},
		{"plain", fmt.Errorf("boom"), CodeInternalError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}

func TestNotFound_KeepsCause(t *testing.T) {
	err := NotFound("session abc", core.ErrSessionNotFound)
	assert.Equal(t, "session abc not found: resource not found: session", err.Error())
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.Equal(t, CodeNotFound, Classify(Wrap(err, "results")))
}

func TestWrap_ClassifiesDomainErrors(t *testing.T) {
	err := Wrap(core.NewDataSourceError("DATOS.xlsx", nil), "loading dataset")
	assert.Equal(t, CodeDataSource, Classify(err))
}

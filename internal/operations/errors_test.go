package operations

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/errors"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{
			name: "with step and cause",
			err:  NewExecutionError(StepLoad, fmt.Errorf("disk gone")),
			want: "[execution] load: step execution failed: disk gone",
		},
		{
			name: "without step",
			err:  NewCancellationError("", nil),
			want: "[cancellation] operation was cancelled",
		},
		{
			name: "validation",
			err:  NewValidationError(StepReport, "no output directory"),
			want: "[validation] report: no output directory",
		},
		{
			name: "nil",
			err:  nil,
			want: "unknown operation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := errors.NewParseError("sales.csv", 4, "transaction_qty", "two", nil)
	err := WrapError(cause, StepLoad, "step failed")

	assert.Equal(t, StepLoad, err.Step)
	assert.Equal(t, ErrorTypeExecution, err.Type)
	assert.True(t, errors.IsType(err, errors.ErrTypeParse))

	var nilErr *OperationError
	assert.Nil(t, nilErr.Unwrap())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, StepLoad, "ignored"))

	existing := NewCancellationError("", context.Canceled)
	wrapped := WrapError(existing, StepClean, "step failed")
	assert.Same(t, existing, wrapped)
	assert.Equal(t, StepClean, wrapped.Step)
	assert.Equal(t, "step failed: operation was cancelled", wrapped.Message)
	assert.True(t, stderrors.Is(wrapped, context.Canceled))

	plain := fmt.Errorf("disk gone")
	wrapped = WrapError(plain, StepLoad, "step failed")
	assert.Equal(t, ErrorTypeExecution, wrapped.Type)
	assert.Equal(t, "[execution] load: step failed: disk gone", wrapped.Error())
	assert.Same(t, plain, wrapped.Cause)

	wrapped = WrapError(plain, StepLoad, "")
	assert.Equal(t, "[execution] load: step execution failed: disk gone", wrapped.Error())
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
	assert.Equal(t, ErrorTypeExecution, GetErrorType(fmt.Errorf("plain")))
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(NewCancellationError(StepLoad, nil)))

	nested := fmt.Errorf("outer: %w", NewValidationError(StepLoad, "bad"))
	require.Error(t, nested)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(nested))
}

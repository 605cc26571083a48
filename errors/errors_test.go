package errors_test

import (
	"fmt"
	"testing"

	"github.com/autom8ter/indexadvisor/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("wrap nil error", func(t *testing.T) {
		var err error
		err = errors.Wrap(err, errors.NotFound, "")
		assert.Nil(t, err)
	})
	t.Run("wrap error", func(t *testing.T) {
		var err = fmt.Errorf("not found")
		err = errors.Wrap(err, errors.NotFound, "")
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
	t.Run("new error", func(t *testing.T) {
		err := errors.New(errors.NotFound, "not found")
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
	t.Run("new conflict error", func(t *testing.T) {
		err := errors.New(errors.Conflict, "duplicate index: %s", "account_id_1")
		assert.Equal(t, errors.Conflict, errors.Extract(err).Code)
		assert.Contains(t, errors.Extract(err).Messages[0], "account_id_1")
	})
	t.Run("new error then wrap", func(t *testing.T) {
		err := errors.New(0, "not found")
		err = errors.Wrap(err, errors.NotFound, "")
		assert.Equal(t, errors.NotFound, errors.Extract(err).Code)
	})
	t.Run("new error then wrap then remove", func(t *testing.T) {
		err := errors.New(0, "not found")
		err = errors.Wrap(err, errors.NotFound, "")
		e := errors.Extract(err).RemoveError()
		assert.Empty(t, e.Err)
	})
	t.Run("wrapped error keeps its json string", func(t *testing.T) {
		err := errors.New(errors.Validation, "age - invalid index field direction: sideways")
		err = errors.Wrap(err, 0, "user - invalid index")
		assert.NotEmpty(t, err.Error())
		assert.JSONEq(t, `{ "code":400, "messages": ["age - invalid index field direction: sideways", "user - invalid index"]}`, err.Error())
	})
	t.Run("error json string", func(t *testing.T) {
		err := errors.New(0, "not found")
		err = errors.Wrap(err, errors.NotFound, "")
		e := errors.Extract(err).RemoveError()
		assert.JSONEq(t, `{ "code":404, "messages": ["not found"]}`, e.Error())
	})
}

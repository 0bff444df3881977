package comparer

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// IgnoreFieldsFor ignora campos por nome ao comparar valores do tipo T,
// tipicamente ids e autoria atribuídos pelo store.
func IgnoreFieldsFor[T any](fields ...string) cmp.Option {
	var t T
	return cmpopts.IgnoreFields(t, fields...)
}

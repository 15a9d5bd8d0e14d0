package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergev/closures/lang"
)

func TestInitialEnvironmentBindings(t *testing.T) {
	env := InitialEnvironment()
	assert.Equal(t, []string{"+", "-", ">", "eq?", "list"}, env.Names())
	assert.Equal(t, 1, env.Depth())

	for _, name := range env.Names() {
		val, err := env.ValueOf(name)
		require.NoError(t, err)
		require.Equal(t, lang.KindPrimitive, val.Kind, name)
		assert.Equal(t, name, val.Primitive().Name)
	}

	// Each call builds an independent global frame.
	other := InitialEnvironment()
	env.Bind("x", lang.Number(1))
	_, err := other.ValueOf("x")
	assert.Error(t, err)
}

func TestNumericPrimitives(t *testing.T) {
	cases := []struct {
		name string
		fn   lang.NativeFunc
		a, b int64
		want lang.Exp
	}{
		{"add", primAdd, 2, 3, lang.Number(5)},
		{"sub", primSub, 2, 3, lang.Number(-1)},
		{"greater-true", primGreater, 3, 2, lang.Bool(true)},
		{"greater-false", primGreater, 2, 2, lang.Bool(false)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn([]lang.Exp{lang.Number(tc.a), lang.Number(tc.b)})
			require.NoError(t, err)
			assert.True(t, lang.Equal(tc.want, got), "got %v", got)
		})
	}
}

func TestPrimitiveOperandErrors(t *testing.T) {
	_, err := primAdd([]lang.Exp{lang.Number(1), lang.String("2")})
	var typeErr *lang.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "+", typeErr.Op)
	assert.Equal(t, lang.KindNumber, typeErr.Want)
	assert.Equal(t, lang.KindString, typeErr.Got)

	_, err = primGreater([]lang.Exp{lang.Number(1)})
	var arityErr *lang.ArityError
	require.ErrorAs(t, err, &arityErr)
	assert.Equal(t, 2, arityErr.Want)
	assert.Equal(t, 1, arityErr.Got)

	_, err = primStringEq([]lang.Exp{lang.String("a"), lang.Number(1)})
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "eq?", typeErr.Op)
	assert.Equal(t, lang.KindString, typeErr.Want)
}

func TestPrimStringEq(t *testing.T) {
	got, err := primStringEq([]lang.Exp{lang.String("deposit"), lang.String("deposit")})
	require.NoError(t, err)
	assert.True(t, got.Truth())

	got, err = primStringEq([]lang.Exp{lang.String("deposit"), lang.String("withdraw")})
	require.NoError(t, err)
	assert.False(t, got.Truth())
}

func TestPrimList(t *testing.T) {
	got, err := primList(nil)
	require.NoError(t, err)
	assert.True(t, lang.Equal(lang.ListExp(), got))

	args := []lang.Exp{lang.Number(1), lang.String("a")}
	got, err = primList(args)
	require.NoError(t, err)
	args[0] = lang.Number(9)
	assert.True(t, lang.Equal(lang.ListExp(lang.Number(1), lang.String("a")), got), "list must not alias its arguments")
}

package types

import "testing"

func TestIsCompatibleAutoAbsorbsAnything(t *testing.T) {
	cases := []*Type{NewBool(), NewLong(), NewFloat(), NewArray(NewChar())}
	for _, actual := range cases {
		if !IsCompatible(NewAuto(), actual) {
			t.Errorf("expected auto to absorb %s", actual)
		}
	}
}

func TestIsCompatibleRequiresSameKind(t *testing.T) {
	if IsCompatible(NewLong(), NewFloat()) {
		t.Error("long should not accept float")
	}
	if !IsCompatible(NewLong(), NewLong()) {
		t.Error("long should accept long")
	}
}

func TestIsCompatibleArrayRecursesOnElem(t *testing.T) {
	if !IsCompatible(NewArray(NewLong()), NewArray(NewLong())) {
		t.Error("array<long> should accept array<long>")
	}
	if IsCompatible(NewArray(NewLong()), NewArray(NewFloat())) {
		t.Error("array<long> should not accept array<float>")
	}
	if !IsCompatible(NewArray(NewAuto()), NewArray(NewLong())) {
		t.Error("array<auto> should accept array<long> via elem-level absorption")
	}
}

func TestIsCompatibleProcComparesAllSubTypes(t *testing.T) {
	a, err := NewProc(NewLong(), []*Type{NewLong(), NewBool()}, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewProc(NewLong(), []*Type{NewLong(), NewBool()}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !IsCompatible(a, b) {
		t.Error("identical proc shapes should be compatible")
	}
	c, err := NewProc(NewLong(), []*Type{NewFloat(), NewBool()}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if IsCompatible(a, c) {
		t.Error("differing parameter types should not be compatible")
	}
}

func TestCopyIsDeepAndIndependent(t *testing.T) {
	orig := NewArray(NewLong())
	cp := Copy(orig)
	cp.SubTypes[0].Kind = Float
	if orig.Elem().Kind != Long {
		t.Error("mutating the copy's sub-type leaked back into the original")
	}
}

func TestSubstituteTypeArgsReplacesByIndex(t *testing.T) {
	generic := NewArray(NewTypeArg(0))
	concrete := SubstituteTypeArgs([]*Type{NewLong()}, generic)
	if concrete.Elem().Kind != Long {
		t.Errorf("expected substituted elem type long, got %s", concrete.Elem())
	}
}

func TestSubstituteTypeArgsOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an out-of-range type arg index")
		}
	}()
	SubstituteTypeArgs(nil, NewTypeArg(0))
}

func TestNewProcRejectsTooManySubTypes(t *testing.T) {
	params := make([]*Type, MaxSubTypes)
	for i := range params {
		params[i] = NewLong()
	}
	if _, err := NewProc(NewLong(), params, 0); err != ErrTooManySubTypes {
		t.Errorf("expected ErrTooManySubTypes, got %v", err)
	}
}

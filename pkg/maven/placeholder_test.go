package maven

import (
	"reflect"
	"testing"
)

func TestReference(t *testing.T) {
	tests := []struct {
		value string
		name  string
		ok    bool
	}{
		{"${v}", "v", true},
		{"${project.version}", "project.version", true},
		{"1.0", "", false},
		{"${a}-${b}", "", false},
		{"x${v}", "", false},
		{"${}", "", false},
		{"${v", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			name, ok := reference(tt.value)
			if name != tt.name || ok != tt.ok {
				t.Errorf("reference(%q) = (%q, %v), want (%q, %v)", tt.value, name, ok, tt.name, tt.ok)
			}
		})
	}
}

func TestSubstituteProperties_SinglePass(t *testing.T) {
	props := map[string]string{
		"a":     "${b}",
		"b":     "${c}",
		"c":     "1",
		"mixed": "v${c}",
		"dead":  "${missing}",
	}

	got := substituteProperties(props)
	want := map[string]string{
		"a":     "${c}",
		"b":     "1",
		"c":     "1",
		"mixed": "v${c}",
		"dead":  "${missing}",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("substituteProperties = %v, want %v", got, want)
	}
	if props["b"] != "${c}" {
		t.Error("input map was modified")
	}
}

func TestInterpolate(t *testing.T) {
	props := map[string]string{
		"v":     "2.0",
		"scala": "2.13",
		"loop":  "${v}",
	}

	tests := []struct {
		in   string
		want string
	}{
		{"1.0", "1.0"},
		{"${v}", "2.0"},
		{"akka-actor_${scala}", "akka-actor_2.13"},
		{"${v}-${scala}", "2.0-2.13"},
		{"${missing}", "${missing}"},
		{"${v}-${missing}", "2.0-${missing}"},
		{"${loop}", "${v}"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := interpolate(tt.in, props); got != tt.want {
				t.Errorf("interpolate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConcrete(t *testing.T) {
	if !concrete("1.0") || !concrete("") || !concrete("$x") {
		t.Error("plain values should be concrete")
	}
	if concrete("${v}") || concrete("1.${minor}") {
		t.Error("values with ${ should not be concrete")
	}
}

package trans

import (
	"testing"

	"github.com/Masterminds/semver/v3"

	"ridl/internal/model"
	"ridl/internal/source"
)

func TestVersionSegment(t *testing.T) {
	ver := semver.MustParse("1.2.3-alpha.1+b.2")
	tests := []struct {
		level   int
		ordinal int
		want    string
	}{
		{0, 0, "v1"},
		{1, 0, "v1_2"},
		{2, 0, "v1_2_3"},
		{3, 0, "v1_2_3_alpha_1"},
		{4, 0, "v1_2_3_alpha_1_b_2"},
		{5, 7, "v1_2_3_alpha_1_b_2_7"},
	}
	for _, tt := range tests {
		if got := versionSegment(ver, tt.level, tt.ordinal); got != tt.want {
			t.Errorf("Level %d: expected %q, got %q", tt.level, tt.want, got)
		}
	}
}

func TestFlattenPackage(t *testing.T) {
	pkg := model.NewVersionedPackage(model.ParsePackage("io.cars"), semver.MustParse("2.1.0"))
	if got := flattenPackage(pkg, 0, 0).Key(); got != "io.cars.v2" {
		t.Errorf("Expected io.cars.v2, got %q", got)
	}
	bare := model.NewVersionedPackage(model.ParsePackage("io.cars"), nil)
	if got := flattenPackage(bare, 3, 0).Key(); got != "io.cars" {
		t.Errorf("Expected the unversioned path untouched, got %q", got)
	}
}

func TestPackagesDisambiguate(t *testing.T) {
	r := &memResolver{packages: map[string][]memCandidate{
		"io.cars": {
			{version: semver.MustParse("1.0.0"), content: sharedDoc},
			{version: semver.MustParse("1.0.1"), content: sharedDoc},
		},
	}}
	env, _ := newTestEnv(r, Options{})
	if _, err := env.Import(rangeOf(t, "io.cars", "1.0.0")); err != nil {
		t.Fatalf("Import 1.0.0: %v", err)
	}
	if _, err := env.Import(rangeOf(t, "io.cars", "1.0.1")); err != nil {
		t.Fatalf("Import 1.0.1: %v", err)
	}
	mapping := env.packages()
	if got := mapping["io.cars@1.0.0"].Key(); got != "io.cars.v1_0_0" {
		t.Errorf("Expected io.cars.v1_0_0, got %q", got)
	}
	if got := mapping["io.cars@1.0.1"].Key(); got != "io.cars.v1_0_1" {
		t.Errorf("Expected io.cars.v1_0_1, got %q", got)
	}
}

func TestPackagesKeepDistinctShort(t *testing.T) {
	env, _ := loadVehicles(t, Options{})
	if _, err := env.ImportObject(source.NewBytesObject("extra.ridl", []byte(sharedDoc)), nil); err != nil {
		t.Fatalf("ImportObject: %v", err)
	}
	mapping := env.packages()
	if len(mapping) != 3 {
		t.Fatalf("Expected 3 assignments, got %v", mapping)
	}
	if got := mapping["io.cars@1.0.0"].Key(); got != "io.cars.v1" {
		t.Errorf("Expected the shortest distinct form, got %q", got)
	}
	if got := mapping[""].Key(); got != "" {
		t.Errorf("Expected the anonymous package to stay empty, got %q", got)
	}
}

func TestPackagesOrdinalFallback(t *testing.T) {
	env, _ := newTestEnv(&memResolver{}, Options{})
	if _, err := env.ImportObject(source.NewBytesObject("one.ridl", []byte(sharedDoc)), semver.MustParse("1.0.0+a-b")); err != nil {
		t.Fatalf("ImportObject one: %v", err)
	}
	if _, err := env.ImportObject(source.NewBytesObject("two.ridl", []byte(sharedDoc)), semver.MustParse("1.0.0+a.b")); err != nil {
		t.Fatalf("ImportObject two: %v", err)
	}
	mapping := env.packages()
	if got := mapping["@1.0.0+a-b"].Key(); got != "v1_0_0_a_b_0" {
		t.Errorf("Expected the first ordinal, got %q", got)
	}
	if got := mapping["@1.0.0+a.b"].Key(); got != "v1_0_0_a_b_1" {
		t.Errorf("Expected the second ordinal, got %q", got)
	}
}

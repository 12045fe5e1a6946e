package query_test

import (
	"reflect"
	"testing"

	"github.com/fcc-hep/samplecat/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "samples", "s").
		Project("sample_id", "SampleID").
		Project("name", "Name").
		Project("status", "Status")
}

func TestBuilderBuild(t *testing.T) {
	sql, args := query.NewBuilder(testProjection(), query.SortField{Field: "SampleID"}).Build()

	want := "SELECT s.sample_id, s.name, s.status FROM public.samples s ORDER BY s.sample_id ASC"
	if sql != want {
		t.Errorf("Build() =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilderWhereParameterNumbering(t *testing.T) {
	search := "higgs"
	qb := query.NewBuilder(testProjection()).
		WhereSearch(&search, "SampleID", "Name").
		WhereEquals("Status", "done")

	sql, args := qb.BuildCount()

	want := "SELECT COUNT(*) FROM public.samples s WHERE (s.sample_id ILIKE $1 OR s.name ILIKE $2) AND s.status = $3"
	if sql != want {
		t.Errorf("BuildCount() =\n%s\nwant\n%s", sql, want)
	}
	wantArgs := []any{"%higgs%", "%higgs%", "done"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestBuilderWhereSearchSkipsEmpty(t *testing.T) {
	empty := ""
	sql, args := query.NewBuilder(testProjection()).
		WhereSearch(nil, "Name").
		WhereSearch(&empty, "Name").
		BuildCount()

	if sql != "SELECT COUNT(*) FROM public.samples s" {
		t.Errorf("BuildCount() = %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "SampleID"}).
		BuildPage(3, 10)

	want := "SELECT s.sample_id, s.name, s.status FROM public.samples s ORDER BY s.sample_id ASC LIMIT 10 OFFSET 20"
	if sql != want {
		t.Errorf("BuildPage() =\n%s\nwant\n%s", sql, want)
	}
}

func TestBuilderOrderByOverridesDefault(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "SampleID"}).
		OrderByFields([]query.SortField{{Field: "Name", Descending: true}}).
		Build()

	want := "SELECT s.sample_id, s.name, s.status FROM public.samples s ORDER BY s.name DESC"
	if sql != want {
		t.Errorf("Build() =\n%s\nwant\n%s", sql, want)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("SampleID", "p8_ee_ZH")

	want := "SELECT s.sample_id, s.name, s.status FROM public.samples s WHERE s.sample_id = $1"
	if sql != want {
		t.Errorf("BuildSingle() =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 1 || args[0] != "p8_ee_ZH" {
		t.Errorf("args = %v", args)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "name", []query.SortField{{Field: "name"}}},
		{"descending prefix", "-name", []query.SortField{{Field: "name", Descending: true}}},
		{
			"mixed with whitespace",
			"name, -updated_at",
			[]query.SortField{{Field: "name"}, {Field: "updated_at", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

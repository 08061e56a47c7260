package scenario

import (
	"errors"
	"path/filepath"
	"testing"

	errs "github.com/wippyai/owned/errors"
)

func TestRun_Default(t *testing.T) {
	report, err := Run(Default())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := traceStrings(report.Trace)
	want := []string{
		"ctor #1 (10)",
		"Hello x=10",
		"p is null",
		"Hello x=10",
		"ctor #2 (99)",
		"dtor #1 (10)",
		"Hello x=99",
		"q is null",
		"Hello x=99",
		"dtor #2 (99)",
	}
	if !equalStrings(got, want) {
		t.Fatalf("trace = %q\nwant  %q", got, want)
	}

	if !report.OK() {
		t.Fatalf("report not OK: leaked=%v violations=%v errors=%v",
			report.Leaked, report.Violations, report.Errors)
	}
	for _, r := range report.Records {
		if r.Destroyed != 1 {
			t.Errorf("#%d destroyed %d times", r.ID, r.Destroyed)
		}
	}
	if len(report.Slots) != 2 || report.Slots[0].Valid || report.Slots[1].Valid {
		t.Errorf("both handles should end empty, got %+v", report.Slots)
	}
}

func TestRun_Files(t *testing.T) {
	tests := []struct {
		file   string
		ok     bool
		leaked []uint64
	}{
		{file: "transfer.yaml", ok: true},
		{file: "vault.toml", ok: true},
		{file: "leak.txt", leaked: []uint64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			s, err := Load(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			report, err := Run(s)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if report.OK() != tt.ok {
				t.Fatalf("OK() = %v, want %v (leaked %v)", report.OK(), tt.ok, report.Leaked)
			}
			if len(report.Leaked) != len(tt.leaked) {
				t.Fatalf("Leaked = %v, want %v", report.Leaked, tt.leaked)
			}
			for i := range tt.leaked {
				if report.Leaked[i] != tt.leaked[i] {
					t.Fatalf("Leaked = %v, want %v", report.Leaked, tt.leaked)
				}
			}
			if len(report.Violations) != 0 {
				t.Fatalf("Violations = %v", report.Violations)
			}
		})
	}
}

func TestRun_StopsAtFirstError(t *testing.T) {
	s, err := ParseText("fail", []byte("make p 1\nhello q\nmake r 2\n"))
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	report, err := Run(s)
	if !errors.Is(err, &errs.Error{Phase: errs.PhaseExecute, Kind: errs.KindNotFound}) {
		t.Fatalf("err = %v, want not_found", err)
	}
	if report == nil {
		t.Fatal("partial report expected")
	}
	if len(report.Records) != 1 {
		t.Fatalf("steps after the failure must not run, records %+v", report.Records)
	}
	if report.Records[0].Destroyed != 1 {
		t.Fatal("values must still be destroyed when the run stops early")
	}
	if report.OK() {
		t.Fatal("failed run must not be OK")
	}
}

func TestRun_ContinueOnError(t *testing.T) {
	s, err := ParseText("cont", []byte("make p 1\nhello q\nmake r 2\n"))
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	var errorEvents int
	report, err := Run(s, ContinueOnError(), WithObserver(func(e Event) {
		if e.Kind == EventError {
			errorEvents++
		}
	}))
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if len(report.Errors) != 1 || errorEvents != 1 {
		t.Fatalf("want one recorded error, got %v (%d events)", report.Errors, errorEvents)
	}
	if len(report.Records) != 2 {
		t.Fatalf("later steps should run, records %+v", report.Records)
	}
}

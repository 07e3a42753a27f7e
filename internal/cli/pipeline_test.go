package cli

import (
	"errors"
	"testing"

	"github.com/artagon/artagon-cli/internal/config"
)

func TestPipeline_RunsStepsInOrder(t *testing.T) {
	ctx := NewContext(t.TempDir(), config.Default())

	var order []int
	record := func(n int) Step {
		return func(*Context) error {
			order = append(order, n)
			return nil
		}
	}

	if err := Pipeline(record(1), record(2), record(3))(ctx); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestPipeline_FailureAbortsAndPropagatesUnchanged(t *testing.T) {
	ctx := NewContext(t.TempDir(), config.Default())

	boom := errors.New("boom")
	var laterRan bool
	err := Pipeline(
		func(*Context) error { return nil },
		func(*Context) error { return boom },
		func(*Context) error { laterRan = true; return nil },
	)(ctx)

	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the step's error unchanged", err)
	}
	if laterRan {
		t.Error("later step ran after a failure")
	}
}

func TestPipeline_Empty(t *testing.T) {
	ctx := NewContext(t.TempDir(), config.Default())
	if err := Pipeline()(ctx); err != nil {
		t.Errorf("empty pipeline err = %v", err)
	}
}

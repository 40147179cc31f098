package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStep is a scriptable step for sequence tests.
type fakeStep struct {
	name      string
	satisfied bool
	checkErr  error
	applyErr  error
	optional  bool

	applied int
	checked int
	journal *[]string
}

func (f *fakeStep) Name() string { return f.name }

func (f *fakeStep) Satisfied(ctx context.Context) (bool, error) {
	f.checked++
	return f.satisfied, f.checkErr
}

func (f *fakeStep) Apply(ctx context.Context) error {
	f.applied++
	if f.journal != nil {
		*f.journal = append(*f.journal, f.name)
	}
	return f.applyErr
}

func (f *fakeStep) Optional() bool { return f.optional }

func TestRunExecutesInOrder(t *testing.T) {
	var journal []string
	a := &fakeStep{name: "a", journal: &journal}
	b := &fakeStep{name: "b", journal: &journal}
	c := &fakeStep{name: "c", journal: &journal}

	results, err := NewSequence(a, b, c).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, journal)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, StateApplied, r.State)
	}
}

func TestRunSkipsSatisfiedSteps(t *testing.T) {
	a := &fakeStep{name: "a", satisfied: true}
	b := &fakeStep{name: "b"}

	results, err := NewSequence(a, b).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, a.applied)
	assert.Equal(t, 1, b.applied)
	assert.Equal(t, StateSkipped, results[0].State)
	assert.Equal(t, StateApplied, results[1].State)
}

func TestRunRequiredFailureAborts(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeStep{name: "a"}
	b := &fakeStep{name: "b", applyErr: boom}
	c := &fakeStep{name: "c"}

	results, err := NewSequence(a, b, c).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `step "b" failed`)

	assert.Zero(t, c.applied, "steps after a required failure must not run")
	require.Len(t, results, 3)
	assert.Equal(t, StateFailed, results[1].State)
	assert.Equal(t, StatePending, results[2].State)
}

func TestRunOptionalFailureContinues(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeStep{name: "a", applyErr: boom, optional: true}
	b := &fakeStep{name: "b"}

	results, err := NewSequence(a, b).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, b.applied)
	assert.Equal(t, StateFailed, results[0].State)
	assert.True(t, results[0].Optional)
	assert.Equal(t, StateApplied, results[1].State)
}

func TestRunAppliesWhenCheckFails(t *testing.T) {
	// An unevaluable predicate falls through to Apply, which surfaces
	// the real problem if any.
	a := &fakeStep{name: "a", checkErr: errors.New("cannot tell")}

	results, err := NewSequence(a).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, a.applied)
	assert.Equal(t, StateApplied, results[0].State)
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := &fakeStep{name: "a"}
	_, err := NewSequence(a).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, a.applied)
}

func TestStatusAppliesNothing(t *testing.T) {
	a := &fakeStep{name: "a", satisfied: true}
	b := &fakeStep{name: "b"}
	c := &fakeStep{name: "c", checkErr: errors.New("unreachable")}

	results, err := NewSequence(a, b, c).Status(context.Background())
	require.NoError(t, err)

	assert.Zero(t, a.applied)
	assert.Zero(t, b.applied)
	assert.Equal(t, StateSkipped, results[0].State)
	assert.Equal(t, StatePending, results[1].State)
	assert.Equal(t, StatePending, results[2].State)
	assert.Error(t, results[2].Err)
}

func TestRerunIsIdempotent(t *testing.T) {
	// A full successful run leaves every step satisfied; a second run
	// applies nothing. Models re-running the whole bootstrap.
	a := &fakeStep{name: "a"}
	seq := NewSequence(a)

	_, err := seq.Run(context.Background())
	require.NoError(t, err)

	a.satisfied = true // effect now holds
	_, err = seq.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, a.applied)
}

package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stsforge/stsmc/refine"
)

func writeFixtures(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("; fixture\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
}

func TestRunWalksAndMatchesIncludeExclude(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, "a.sts", "b.sts", "c.skip.sts", "notes.txt")

	d := New(Config{Dir: dir, Include: []string{"*.sts"}, Exclude: []string{"*.skip.sts"}})
	var seen []string
	report, err := d.Run(context.Background(), func(ctx context.Context, path string) (refine.Result, error) {
		seen = append(seen, filepath.Base(path))
		return refine.Result{Outcome: refine.Safe, ReachedDepth: 1}, nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.sts", "b.sts"}, seen)
	require.Len(t, report.Results, 2)
	require.NotEmpty(t, report.RunID)
	for _, fr := range report.Results {
		require.Equal(t, KindSuccess, fr.Result.Kind)
		require.True(t, fr.Result.Safe)
	}
}

func TestRunReportsErrorKind(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, "bad.sts")

	d := New(Config{Dir: dir, Include: []string{"*.sts"}})
	report, err := d.Run(context.Background(), func(ctx context.Context, path string) (refine.Result, error) {
		return refine.Result{}, errors.New("boom")
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.Equal(t, KindError, report.Results[0].Result.Kind)
	require.Contains(t, report.Results[0].Result.Message, "boom")
}

func TestRunReportsPanicKind(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, "panics.sts")

	d := New(Config{Dir: dir, Include: []string{"*.sts"}})
	report, err := d.Run(context.Background(), func(ctx context.Context, path string) (refine.Result, error) {
		panic("unexpected nil model")
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.Equal(t, KindPanic, report.Results[0].Result.Kind)
	require.Contains(t, report.Results[0].Result.Message, "unexpected nil model")
}

func TestRunReportsTimeoutKind(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, dir, "slow.sts")

	d := New(Config{Dir: dir, Include: []string{"*.sts"}, Timeout: 20 * time.Millisecond})
	report, err := d.Run(context.Background(), func(ctx context.Context, path string) (refine.Result, error) {
		select {
		case <-ctx.Done():
			return refine.Result{}, ctx.Err()
		case <-time.After(time.Second):
			return refine.Result{Outcome: refine.Safe}, nil
		}
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.Equal(t, KindTimeout, report.Results[0].Result.Kind)
	require.GreaterOrEqual(t, report.Results[0].Result.Millis, int64(0))
}

func TestMatchesWithNoIncludeAcceptsEverything(t *testing.T) {
	d := New(Config{Exclude: []string{"*.skip"}})
	require.True(t, d.matches("anything.sts"))
	require.False(t, d.matches("x.skip"))
}

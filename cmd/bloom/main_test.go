package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunWeek(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runWeek(&buf, "2026-12-24", "2026-10-15", time.Now()))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Week 30 (trimester 3, 75%)\n"), out)
	require.Contains(t, out, "Size: Eggplant")
	require.Contains(t, out, "10 weeks to go")
}

func TestRunWeekRejectsBadDates(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, runWeek(&buf, "24/12/2026", "", time.Now()))
	require.Error(t, runWeek(&buf, "2026-12-24", "tomorrow", time.Now()))
}

func TestWeekCommand(t *testing.T) {
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"week", "--due", "2026-10-15", "--today", "2026-10-15"})
	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "Week 40")
	require.Contains(t, buf.String(), "Watermelon")
}

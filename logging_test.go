package lumen

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWriterLoggerStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("lumen", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("chamber #%d added", 0)
	l.Warnf("careful")
	l.Errorf("broken")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[lumen] INFO: chamber #0 added")
	assert.Contains(t, errOut.String(), "[lumen] WARN: careful")
	assert.Contains(t, errOut.String(), "[lumen] ERROR: broken")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown %d", 2)
	assert.Contains(t, out.String(), "DEBUG: shown 2")
}

func TestLogFrameLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("", false, &out, &errOut)

	logFrame(l, []FrameLog{
		frameLogFromErr(invalidChamber(4)),
		newFrameLog(KindOther, "frame aborted"),
	})
	assert.Contains(t, errOut.String(), "WARN: [")
	assert.Contains(t, errOut.String(), "invalid chamber access: 4")
	assert.Contains(t, out.String(), "INFO: [")
	assert.Contains(t, out.String(), "frame aborted")
}

func TestProfiler(t *testing.T) {
	p := NewProfiler()
	p.BeginScope("drain")
	time.Sleep(time.Millisecond)
	p.EndScope("drain")
	p.BeginScope("shading")
	p.EndScope("shading")
	p.BeginScope("drain")
	p.EndScope("drain")
	p.EndScope("drain")
	p.EndScope("unknown")

	assert.Equal(t, []string{"drain", "shading"}, p.Scopes())
	assert.GreaterOrEqual(t, p.Duration("drain"), time.Millisecond)
	assert.Zero(t, p.Duration("unknown"))

	p.AddCount("draws", 2)
	p.AddCount("draws", 3)
	p.SetCount("logs", 1)
	stats := p.StatsString()
	assert.Less(t, strings.Index(stats, "drain"), strings.Index(stats, "shading"))
	assert.Contains(t, stats, "draws")
	assert.Less(t, strings.Index(stats, "draws"), strings.Index(stats, "logs"))

	p.Reset()
	assert.Zero(t, p.Duration("drain"))
	assert.Zero(t, p.Counts["draws"])
	assert.Equal(t, []string{"drain", "shading"}, p.Scopes())
}

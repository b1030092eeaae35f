package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	catalogJson = "../../pkg/model/testdata/catalog.json"
	catalogCsv  = "../../pkg/model/testdata/catalog.csv"
	courses     = "CSC 111,MATH 100"
)

// Schedules of CSC 111 and MATH 100 in enumeration order
var schedules = []string{
	"20654_20664_20670_21145",
	"20655_20664_20670_21144",
	"20655_20664_20670_21145",
	"20655_20665_20670_21145",
}

func run(t *testing.T, args ...string) (string, int, error) {
	t.Helper()
	root, exitCode := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), exitCode(), err
}

func TestNext(t *testing.T) {
	t.Run("Walk forward", func(t *testing.T) {
		state := ""
		for i, expected := range schedules {
			//** Act
			out, code, err := run(t, "next", "--catalog", catalogJson, "--courses", courses, "--state", state)

			//** Assert
			require.Nil(t, err)
			assert.Equal(t, ExitFound, code)

			var page pageView
			require.Nil(t, json.Unmarshal([]byte(out), &page))
			assert.Equal(t, expected, page.State, i)
			assert.Equal(t, "8", page.SearchSpace)
			assert.Len(t, page.Schedule, 4)
			assert.Equal(t, "state="+expected, page.Next)
			state = page.State
		}

		_, code, err := run(t, "next", "--catalog", catalogJson, "--courses", courses, "--state", state)
		assert.Nil(t, err)
		assert.Equal(t, ExitExhausted, code)
	})

	t.Run("Walk backward", func(t *testing.T) {
		out, code, err := run(t, "next", "--catalog", catalogJson, "--courses", courses, "--state", schedules[1], "--prev")

		require.Nil(t, err)
		assert.Equal(t, ExitFound, code)
		var page pageView
		require.Nil(t, json.Unmarshal([]byte(out), &page))
		assert.Equal(t, schedules[0], page.State)
		assert.Equal(t, "2", page.Rank)
		assert.Equal(t, uint64(20654), page.Selections["CSC 111"].Lecture)
		assert.Equal(t, uint64(20664), *page.Selections["CSC 111"].Lab)
	})

	t.Run("Text format", func(t *testing.T) {
		out, code, err := run(t, "next", "--catalog", catalogCsv, "--courses", courses, "--format", "text")

		require.Nil(t, err)
		assert.Equal(t, ExitFound, code)
		assert.Contains(t, out, "Schedule 2 of 8 (state "+schedules[0]+")")
		assert.Contains(t, out, "CSC 111: 20654 20664 20670\nMATH 100: 21145\n")
		assert.Contains(t, out, "MATH 100")
		assert.Contains(t, out, "10:00-11:20")
	})

	t.Run("Output file", func(t *testing.T) {
		//** Arrange
		outFile := filepath.Join(t.TempDir(), "schedule.ics")

		//** Act
		out, code, err := run(t, "next", "--catalog", catalogJson, "--courses", courses, "--format", "ics", "--out", outFile)

		//** Assert
		require.Nil(t, err)
		assert.Equal(t, ExitFound, code)
		assert.Empty(t, out)
		content, err := os.ReadFile(outFile)
		require.Nil(t, err)
		assert.Equal(t, 4, strings.Count(string(content), "BEGIN:VEVENT"))
	})

	t.Run("Repeated course", func(t *testing.T) {
		out, code, err := run(t, "next", "--catalog", catalogJson, "--courses", "CSC 111,csc 111,MATH 100", "--state", schedules[3])

		require.Nil(t, err)
		assert.Equal(t, ExitExhausted, code)
		assert.Empty(t, out)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, _, err := run(t, "next", "--catalog", catalogJson, "--courses", courses, "--format", "xml")
		assert.NotNil(t, err)
	})

	t.Run("Unknown course", func(t *testing.T) {
		_, _, err := run(t, "next", "--catalog", catalogJson, "--courses", "CSC 999")
		assert.NotNil(t, err)
	})

	t.Run("Malformed state", func(t *testing.T) {
		_, _, err := run(t, "next", "--catalog", catalogJson, "--courses", courses, "--state", "abc")
		assert.NotNil(t, err)
	})
}

func TestVerify(t *testing.T) {
	out, code, err := run(t, "verify", "--catalog", catalogJson, "--courses", courses, "--state", schedules[2])
	require.Nil(t, err)
	assert.Equal(t, ExitFound, code)
	assert.Equal(t, "valid\n", out)

	out, code, err = run(t, "verify", "--catalog", catalogJson, "--courses", courses, "--state", "20654_20664_20670_21144")
	require.Nil(t, err)
	assert.Equal(t, ExitVerifyFailed, code)
	assert.Equal(t, "invalid\n", out)

	_, _, err = run(t, "verify", "--catalog", catalogJson, "--courses", courses, "--state", "20654_1")
	assert.NotNil(t, err)
}

func TestExport(t *testing.T) {
	out, code, err := run(t, "export", "--catalog", catalogJson, "--courses", courses, "--state", schedules[3])
	require.Nil(t, err)
	assert.Equal(t, ExitFound, code)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "CSC 111 B02 (lab)")

	_, code, err = run(t, "export", "--catalog", catalogJson, "--courses", courses, "--state", "20655_20665_20670_21144")
	require.Nil(t, err)
	assert.Equal(t, ExitVerifyFailed, code)
}

func TestImportAndCourses(t *testing.T) {
	//** Arrange
	db := filepath.Join(t.TempDir(), "catalog.db")

	//** Act
	out, _, err := run(t, "import", catalogCsv, "--db", db)

	//** Assert
	require.Nil(t, err)
	assert.Contains(t, out, "imported 3 courses and 9 sections")

	out, _, err = run(t, "courses", "--db", db)
	require.Nil(t, err)
	assert.Equal(t, "CSC 111\nMATH 100\nENGL 135\n", out)

	out, _, err = run(t, "courses", "math", "--db", db)
	require.Nil(t, err)
	assert.Equal(t, "MATH 100\n", out)

	out, code, err := run(t, "next", "--db", db, "--courses", courses)
	require.Nil(t, err)
	assert.Equal(t, ExitFound, code)
	assert.Contains(t, out, schedules[0])
}

func TestConfigFile(t *testing.T) {
	//** Arrange
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := "catalog: " + catalogJson + "\nstalePolicy: fail\n"
	require.Nil(t, os.WriteFile(configFile, []byte(content), 0o600))

	//** Act
	_, _, err := run(t, "next", "--config", configFile, "--courses", courses, "--state", "20670_20654")

	//** Assert
	assert.ErrorContains(t, err, "position does not match")
}

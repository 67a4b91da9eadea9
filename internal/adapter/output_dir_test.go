package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "mutlab.dev/pkg/mutlab/internal/model"
	"mutlab.dev/pkg/mutlab/pkg"
)

func TestOutputDirCreate(t *testing.T) {
	tmp := t.TempDir()

	out, err := NewOutputDir(tmp)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(tmp, "mutants.out"), out.Path())
	require.Equal(t, filepath.Join(tmp, "mutants.out", "log"), out.LogDir())
	require.DirExists(t, out.Path())
	require.DirExists(t, out.LogDir())

	entries, err := os.ReadDir(out.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1, "fresh output dir holds only log/")
}

func TestOutputDirRotation(t *testing.T) {
	tmp := t.TempDir()

	// Create an initial output dir with one log.
	out, err := NewOutputDir(tmp)
	require.NoError(t, err)

	logOne, err := out.CreateLog("one")
	require.NoError(t, err)
	require.NoError(t, logOne.Close())
	require.FileExists(t, filepath.Join(tmp, "mutants.out", "log", "one.log"))

	// The second time we create it in the same directory, the old one is moved away.
	out, err = NewOutputDir(tmp)
	require.NoError(t, err)

	logTwo, err := out.CreateLog("two")
	require.NoError(t, err)
	require.NoError(t, logTwo.Close())

	require.FileExists(t, filepath.Join(tmp, "mutants.out.old", "log", "one.log"))
	require.FileExists(t, filepath.Join(tmp, "mutants.out", "log", "two.log"))
	require.NoFileExists(t, filepath.Join(tmp, "mutants.out", "log", "one.log"))

	// The third time (and later), the oldest directory is removed.
	out, err = NewOutputDir(tmp)
	require.NoError(t, err)

	logThree, err := out.CreateLog("three")
	require.NoError(t, err)
	require.NoError(t, logThree.Close())

	require.FileExists(t, filepath.Join(tmp, "mutants.out", "log", "three.log"))
	require.FileExists(t, filepath.Join(tmp, "mutants.out.old", "log", "two.log"))
	require.NoFileExists(t, filepath.Join(tmp, "mutants.out", "log", "two.log"))
	require.NoFileExists(t, filepath.Join(tmp, "mutants.out.old", "log", "one.log"))

	// Exactly two generations exist.
	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestOutputDirSnapshots(t *testing.T) {
	tmp := t.TempDir()

	out, err := NewOutputDir(tmp)
	require.NoError(t, err)

	t.Run("mutants.json", func(t *testing.T) {
		mutations := []m.Mutation{
			{File: "a.go", Line: 1, Column: 2, Kind: m.MutagenArithmetic, Original: "+", Replacement: "-"},
		}
		require.NoError(t, out.WriteMutants(mutations))

		got, err := pkg.ReadJSONFile[[]m.Mutation](filepath.Join(out.Path(), "mutants.json"))
		require.NoError(t, err)
		require.Equal(t, mutations, got)
	})

	t.Run("outcomes.json is rewritten wholesale", func(t *testing.T) {
		lab := &m.LabOutcome{}
		lab.Add(*m.NewOutcome(m.BaselineScenario(), "log/baseline.log"))
		require.NoError(t, out.WriteLabOutcome(lab))

		lab.Add(*m.NewOutcome(m.MutantScenario(m.Mutation{File: "a.go", Original: "+", Replacement: "-"}, 0, 1), ""))
		require.NoError(t, out.WriteLabOutcome(lab))

		got, err := pkg.ReadJSONFile[m.LabOutcome](filepath.Join(out.Path(), "outcomes.json"))
		require.NoError(t, err)
		require.Len(t, got.Outcomes, 2)
	})
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()

	log, err := CreateLogFile(dir, "baseline")
	require.NoError(t, err)

	log.Message("baseline")
	_, err = log.Write([]byte("tool output\n"))
	require.NoError(t, err)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	require.Equal(t, "baseline\n\ntool output\n", string(data))
}

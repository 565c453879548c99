package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fslcmd/internal/fsl"
)

func writeTable(t *testing.T, name, content string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	for _, img := range []string{"sub01.nii", "sub02.nii"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, img), nil, 0o644))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Chdir(t.TempDir())
	cwd, err := os.Getwd()
	require.NoError(t, err)
	return path, cwd
}

func TestLoadTableCSV(t *testing.T) {
	path, cwd := writeTable(t, "subjects.csv", "\ufefftool,name,in_file,frac,mask,in_files,number_classes,output_type,expect\n"+
		"bet,sub01,sub01.nii,0.4,true,,,NIFTI,bet ${batch_dir}/sub01.nii ${work_dir}/sub01_brain.nii -f 0.40 -m\n"+
		",,,,,,,,\n"+
		"FAST,sub02-seg,,,,\"sub01.nii,sub02.nii\",3,,\n")

	plan, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	bet := plan.Entries[0]
	require.Equal(t, "BET", bet.Tool)
	require.Equal(t, fsl.OutputNIfTI, bet.OutputType)
	require.Equal(t, map[string]any{"in_file": "sub01.nii", "frac": 0.4, "mask": true}, bet.Values)
	require.Equal(t, path+":2", bet.Pos)

	fast := plan.Entries[1]
	require.Equal(t, []any{"sub01.nii", "sub02.nii"}, fast.Values["in_files"])
	require.Equal(t, 3, fast.Values["number_classes"])
	require.False(t, fast.HasExpect)

	results := plan.Check()
	require.Len(t, results, 1)
	require.True(t, results[0].OK(), results[0].Diff())
	require.Contains(t, results[0].Actual, filepath.Join(cwd, "sub01_brain.nii"))
}

func TestLoadTableTSV(t *testing.T) {
	path, _ := writeTable(t, "subjects.tsv", "name\ttool\tin_file\n"+
		"sub01\tBET\tsub01.nii\n"+
		"sub02\tBET\tsub02.nii\n")

	plan, err := Open(context.Background(), path)
	require.NoError(t, err)
	jobs, err := plan.Build()
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	in, _ := jobs[1].Invocation.Get("in_file")
	require.Equal(t, filepath.Join(plan.Dir, "sub02.nii"), in)
	require.Equal(t, path+"#sub02", jobs[1].Key)
}

func TestLoadTableReportsEveryRow(t *testing.T) {
	path, _ := writeTable(t, "bad.csv", "tool,name,frac,fraction,output_type\n"+
		"bet,sub01,high,,\n"+
		"susan,sub02,,,\n"+
		"bet,sub01,,0.2,ANALYZE\n")

	_, err := LoadTable(context.Background(), path)
	var tableErrs TableErrors
	require.ErrorAs(t, err, &tableErrs)

	fields := make([]string, 0, len(tableErrs))
	for _, e := range tableErrs {
		fields = append(fields, e.Field)
	}
	require.ElementsMatch(t, []string{"frac", "tool", "fraction", "output_type", "name"}, fields)
	require.Contains(t, err.Error(), `row 4 name: duplicate name "sub01" (first on row 2)`)
}

func TestLoadTableRejectsBadHeaders(t *testing.T) {
	tests := map[string]string{
		"missing name": "tool,in_file\nbet,sub01.nii\n",
		"duplicate":    "tool,name,frac,FRAC\nbet,a,0.1,0.2\n",
		"no delimiter": "tool\n",
		"empty":        "\n",
		"no rows":      "tool,name\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path, _ := writeTable(t, "jobs.csv", content)
			_, err := LoadTable(context.Background(), path)
			require.Error(t, err)
		})
	}
}

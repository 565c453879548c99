package tools

import "runtime"

// InstallHints suggests how to get a working FSL installation.
func InstallHints() []string {
	switch runtime.GOOS {
	case "darwin", "linux":
		return []string{
			"Install FSL with the official installer: curl -Ls https://fsl.fmrib.ox.ac.uk/fsldownloads/fslconda/releases/getfsl.sh | sh -s",
			"Then export FSLDIR and source $FSLDIR/etc/fslconf/fsl.sh",
		}
	case "windows":
		return []string{
			"FSL does not run natively on Windows; install it inside WSL",
		}
	default:
		return []string{"Install FSL following the FSL wiki installation guide"}
	}
}

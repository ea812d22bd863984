package buildctl

import "os/exec"

// Indirection layer to allow stubbing in tests

var (
	fnRunCmd   = RunCmd
	fnCapture  = Capture
	fnLookPath = exec.LookPath
)

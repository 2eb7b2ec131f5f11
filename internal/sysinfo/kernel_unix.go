//go:build unix

package sysinfo

import "golang.org/x/sys/unix"

// kernelProperties reports uname(2) fields.
func kernelProperties() map[string]string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return nil
	}
	return map[string]string{
		"os.version":     unix.ByteSliceToString(uts.Release[:]),
		"kernel.name":    unix.ByteSliceToString(uts.Sysname[:]),
		"kernel.machine": unix.ByteSliceToString(uts.Machine[:]),
	}
}

//go:build !unix

package sysinfo

func kernelProperties() map[string]string {
	return nil
}

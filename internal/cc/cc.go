package cc

import (
	"os"
	"os/exec"
)

var (
	commonCxxCompilers = []string{"clang++", "g++", "c++", "icpx", "icpc"}
	msvcCxxCompilers   = []string{"cl", "clang-cl"}
)

// findCompiler attempts to find a suitable C++ compiler for the target
func findCompiler(msvc bool) string {
	if cxx := os.Getenv("CXX"); cxx != "" {
		return cxx
	}

	compilersToTry := commonCxxCompilers
	if msvc {
		compilersToTry = msvcCxxCompilers
	}

	for _, compiler := range compilersToTry {
		path, err := exec.LookPath(compiler)
		if err == nil {
			return path
		}
	}

	return ""
}

// findArchiver returns the static archiver for the target
func findArchiver(msvc bool) string {
	if ar := os.Getenv("AR"); ar != "" {
		return ar
	}
	if msvc {
		return "lib"
	}
	return "ar"
}

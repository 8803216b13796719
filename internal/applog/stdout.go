package applog

import "os"

func newStdout() *os.File {
	return os.Stdout
}

package testing

import (
	"os"
	"path"
	"runtime"
)

// Importing this package for side effects moves the test process to the
// module root, so relative paths (logs, sqlite files, templates) resolve the
// same way they do for the server binary:
//
//	import (
//	  _ "waterwatch.io/commissioning-service/pkg/testing"
//	)
func init() {
	_, filename, _, _ := runtime.Caller(0)
	root := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(root); err != nil {
		panic(err)
	}
}

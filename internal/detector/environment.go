package detector

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// The ONNX Runtime environment is process-global: ort.InitializeEnvironment
// may only be called once per process, and ort.DestroyEnvironment should
// only run after the last engine using it has released its session. A
// refcount tracks how many Engines currently hold it loaded.
var (
	envMu       sync.Mutex
	envRefCount int
)

// SetSharedLibraryPath configures where ort.InitializeEnvironment loads
// the native ONNX Runtime shared library from. Call it once at process
// startup, before the first Engine.Load.
func SetSharedLibraryPath(path string) {
	ort.SetSharedLibraryPath(path)
}

func acquireEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()

	if envRefCount == 0 {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("detector: initialize ONNX Runtime environment: %w", err)
		}
	}
	envRefCount++
	return nil
}

func releaseEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()

	if envRefCount == 0 {
		return nil
	}
	envRefCount--
	if envRefCount == 0 {
		if err := ort.DestroyEnvironment(); err != nil {
			return fmt.Errorf("detector: destroy ONNX Runtime environment: %w", err)
		}
	}
	return nil
}

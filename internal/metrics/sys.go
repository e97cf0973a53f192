package metrics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// SysHealth is a point-in-time view of the process and its data directory.
type SysHealth struct {
	AllocMB    uint64
	SysMB      uint64
	NumGC      uint32
	Goroutines int
	DataBytes  int64
	DataSize   string
}

// GetSysHealth collects process memory stats and the size of dataPath.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	size := dirSize(dataPath)
	return SysHealth{
		AllocMB:    m.Alloc / 1024 / 1024,
		SysMB:      m.Sys / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		DataBytes:  size,
		DataSize:   HumanBytes(size),
	}
}

// RegisterDataDirGauge exports the size of dataPath, measured at scrape time.
func RegisterDataDirGauge(reg prometheus.Registerer, dataPath string) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   "pantry_planner",
		Name:        "data_dir_bytes",
		Help:        "Bytes stored under the data directory.",
		ConstLabels: prometheus.Labels{"path": dataPath},
	}, func() float64 {
		return float64(dirSize(dataPath))
	}))
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}

// HumanBytes renders n with a binary unit, e.g. "1.5 KB".
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

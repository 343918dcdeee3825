package workers

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/eventcrew/awardsysbackend/repository"
)

// PhotoCleaner removes superseded nominee photo files in the background.
// Deletion is best-effort: a failure is logged and the file is picked up
// again by the next orphan sweep, but the mutation that replaced the photo
// has long since committed and is never affected.
type PhotoCleaner struct {
	PhotosDir string
	Nominees  repository.NomineeRepositoryInterface
	JobQueue  chan string
	Wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewPhotoCleaner starts numWorkers deletion workers over a buffered queue.
func NewPhotoCleaner(photosDir string, nominees repository.NomineeRepositoryInterface, queueSize, numWorkers int) *PhotoCleaner {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	pc := &PhotoCleaner{
		PhotosDir: filepath.Clean(photosDir),
		Nominees:  nominees,
		JobQueue:  make(chan string, queueSize),
	}

	pc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go pc.worker(i)
	}
	log.Printf("started %d photo cleanup worker(s) with queue size %d", numWorkers, queueSize)

	return pc
}

// Enqueue schedules a stored photo file for removal. Never blocks the
// caller: if the queue is full the file is left for the orphan sweep.
func (pc *PhotoCleaner) Enqueue(relPath string) {
	select {
	case pc.JobQueue <- relPath:
	default:
		log.Printf("photo cleaner: queue full, leaving %s for the orphan sweep", relPath)
	}
}

func (pc *PhotoCleaner) worker(id int) {
	defer pc.Wg.Done()
	for relPath := range pc.JobQueue {
		pc.remove(relPath)
	}
}

func (pc *PhotoCleaner) remove(relPath string) {
	if relPath == "" || strings.Contains(relPath, "..") {
		log.Printf("photo cleaner: refusing suspicious path %q", relPath)
		return
	}
	fullPath := filepath.Clean(filepath.Join(pc.PhotosDir, relPath))
	if !strings.HasPrefix(fullPath, pc.PhotosDir) {
		log.Printf("photo cleaner: path %q resolves outside photo dir, skipping", relPath)
		return
	}
	if err := os.Remove(fullPath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("photo cleaner: failed to remove %s: %v", fullPath, err)
		}
		return
	}
	log.Printf("photo cleaner: removed %s", relPath)
}

// SweepOrphans deletes stored photo files no nominee row references anymore,
// active or not. Run on a schedule; it backstops Enqueue drops and crashes
// between a photo swap and its deletion.
func (pc *PhotoCleaner) SweepOrphans() {
	referenced, err := pc.Nominees.ListReferencedPhotoPaths()
	if err != nil {
		log.Printf("photo cleaner: orphan sweep aborted: %v", err)
		return
	}
	keep := make(map[string]bool, len(referenced))
	for _, p := range referenced {
		keep[p] = true
	}

	entries, err := os.ReadDir(pc.PhotosDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("photo cleaner: failed to read photo dir: %v", err)
		}
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || keep[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(pc.PhotosDir, entry.Name())); err != nil {
			log.Printf("photo cleaner: failed to remove orphan %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("photo cleaner: orphan sweep removed %d file(s)", removed)
	}
}

// Stop shuts the workers down after the queue drains.
func (pc *PhotoCleaner) Stop() {
	pc.stopOnce.Do(func() {
		close(pc.JobQueue)
	})
	pc.Wg.Wait()
}

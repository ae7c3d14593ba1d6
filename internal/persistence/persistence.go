package persistence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lane2go/lane2go/internal/ui"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/exp/slices"
)

const (
	BucketRuns          = "runs"
	bucketRecordsPrefix = "records/"
)

var ErrRunNotFound = errors.New("run not found")

// Record is a single emitted command, together with the values it was derived from
type Record struct {
	Time      time.Time `json:"time"`
	Angle     int       `json:"angle"`
	Speed     int       `json:"speed"`
	Estimated int       `json:"estimated"`
	Error     int       `json:"error"`
}

type RunInfo struct {
	Id      string    `json:"id"`
	Started time.Time `json:"started"`
	Records uint64    `json:"records"`
}

type Persistence interface {
	Init() error

	StartRun(runId string, started time.Time) error
	SaveRecords(runId string, records []Record) error
	LoadRecords(runId string) ([]Record, error)
	LoadRun(runId string) (RunInfo, error)
	ListRuns() ([]RunInfo, error)
	DeleteRun(runId string) error
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func closeDb(db *bolt.DB) {
	_ = db.Close()
}

// StartRun registers a new recording run
func (p persistence) StartRun(runId string, started time.Time) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer closeDb(db)

	data, err := json.Marshal(RunInfo{Id: runId, Started: started})
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		runs, err := tx.CreateBucketIfNotExists([]byte(BucketRuns))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if runs.Get([]byte(runId)) != nil {
			return fmt.Errorf("run %s already exists", runId)
		}
		_, err = tx.CreateBucketIfNotExists(recordsBucketName(runId))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return runs.Put([]byte(runId), data)
	})
}

// SaveRecords appends the given records to the run, in order
func (p persistence) SaveRecords(runId string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer closeDb(db)

	return db.Update(func(tx *bolt.Tx) error {
		info, err := loadRunInfo(tx, runId)
		if err != nil {
			return err
		}
		b := tx.Bucket(recordsBucketName(runId))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runId)
		}

		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			err = b.Put(itob(seq), data)
			if err != nil {
				return err
			}
		}

		info.Records += uint64(len(records))
		data, err := json.Marshal(info)
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(BucketRuns)).Put([]byte(runId), data)
	})
}

// LoadRecords loads all records of the given run, in the order they were saved
func (p persistence) LoadRecords(runId string) ([]Record, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer closeDb(db)

	var records []Record
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(recordsBucketName(runId))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runId)
		}
		return b.ForEach(func(k, v []byte) error {
			var record Record
			err := json.Unmarshal(v, &record)
			if err != nil {
				ui.Warning("Skipping unreadable record %d of run %s: %v", binary.BigEndian.Uint64(k), runId, err)
				return nil
			}
			records = append(records, record)
			return nil
		})
	})

	return records, err
}

func (p persistence) LoadRun(runId string) (info RunInfo, err error) {
	db, err := p.openPersistence()
	if err != nil {
		return info, err
	}
	defer closeDb(db)

	err = db.View(func(tx *bolt.Tx) error {
		info, err = loadRunInfo(tx, runId)
		return err
	})
	return info, err
}

// ListRuns returns all recorded runs, oldest first
func (p persistence) ListRuns() ([]RunInfo, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer closeDb(db)

	var runs []RunInfo
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketRuns))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var info RunInfo
			err := json.Unmarshal(v, &info)
			if err != nil {
				ui.Warning("Unable to unmarshal run info for %s: %v", string(k), err)
				return nil
			}
			runs = append(runs, info)
			return nil
		})
	})

	slices.SortFunc(runs, func(a, b RunInfo) int {
		if c := a.Started.Compare(b.Started); c != 0 {
			return c
		}
		return strings.Compare(a.Id, b.Id)
	})

	return runs, err
}

func (p persistence) DeleteRun(runId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer closeDb(db)

	return db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket([]byte(BucketRuns))
		if runs == nil || runs.Get([]byte(runId)) == nil {
			// nothing recorded for this run
			return nil
		}
		err := runs.Delete([]byte(runId))
		if err != nil {
			return err
		}
		if tx.Bucket(recordsBucketName(runId)) == nil {
			return nil
		}
		return tx.DeleteBucket(recordsBucketName(runId))
	})
}

func loadRunInfo(tx *bolt.Tx, runId string) (info RunInfo, err error) {
	runs := tx.Bucket([]byte(BucketRuns))
	if runs == nil {
		return info, fmt.Errorf("%w: %s", ErrRunNotFound, runId)
	}
	v := runs.Get([]byte(runId))
	if v == nil {
		return info, fmt.Errorf("%w: %s", ErrRunNotFound, runId)
	}
	err = json.Unmarshal(v, &info)
	return info, err
}

func recordsBucketName(runId string) []byte {
	return []byte(bucketRecordsPrefix + runId)
}

// itob returns an 8-byte big endian representation of v, so keys sort in insertion order
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

package store

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"emosense/internal/dao"
)

const sessionKeyPrefix = "session:"

// PatientBlock is the embedded patient snapshot kept with a fallback record.
type PatientBlock struct {
	Id     int    `json:"id"`
	Nombre string `json:"nombre"`
	Edad   int    `json:"edad"`
	Genero string `json:"genero"`
}

// SessionRecord is the locally persisted session shape, field-compatible
// with the legacy browser-storage format so normalized views can read it.
type SessionRecord struct {
	Id                  string         `json:"id"`
	Paciente            PatientBlock   `json:"paciente"`
	Diagnostico         string         `json:"diagnostico"`
	Notas               string         `json:"notas"`
	Duracion            string         `json:"duracion"`
	EmocionPredominante string         `json:"emocionPredominante"`
	EmocionesDetectadas map[string]int `json:"emocionesDetectadas"`
	ConfianzaPromedio   float64        `json:"confianzaPromedio"`
	Fecha               time.Time      `json:"fecha"`
	Psicologo           string         `json:"psicologo"`
}

// Source exposes the record through the shared normalization layer, which
// resolves the legacy spanish field names into the canonical view.
func (r *SessionRecord) Source() *dao.SessionSource {
	fecha := r.Fecha
	return &dao.SessionSource{
		Id:                  &r.Id,
		PacienteNombre:      &r.Paciente.Nombre,
		PacienteEdad:        &r.Paciente.Edad,
		PacienteGenero:      &r.Paciente.Genero,
		Diagnostico:         &r.Diagnostico,
		Notas:               &r.Notas,
		Duracion:            &r.Duracion,
		EmocionPredominante: &r.EmocionPredominante,
		EmocionesDetectadas: r.EmocionesDetectadas,
		ConfianzaPromedio:   &r.ConfianzaPromedio,
		Fecha:               &fecha,
		Psicologo:           &r.Psicologo,
	}
}

// SessionStore is the append-only local fallback repository. Save with an
// existing id overwrites the whole record, last writer wins; the store is
// owned by a single capture process.
type SessionStore interface {
	Save(record *SessionRecord) error
	List() ([]*SessionRecord, error)
	FindById(id string) (*SessionRecord, error)
	Close() error
}

type badgerStore struct {
	db *badger.DB
}

func NewSessionStore(dir string) (SessionStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) Save(record *SessionRecord) error {
	if record.Id == "" {
		return fmt.Errorf("session record id is empty")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionKeyPrefix+record.Id), data)
	})
}

func (s *badgerStore) List() ([]*SessionRecord, error) {
	var records []*SessionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record SessionRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, &record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

func (s *badgerStore) FindById(id string) (*SessionRecord, error) {
	var record *SessionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record = &SessionRecord{}
			return json.Unmarshal(val, record)
		})
	})
	return record, err
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

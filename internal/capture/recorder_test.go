package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emosense/internal/dao"
	"emosense/internal/store"
)

type fakeAPI struct {
	createErr error
	appendErr error
	created   []*dao.CreateSessionSpec
	appended  []*dao.AddEmotionSpec
	nextId    int
}

func (f *fakeAPI) CreateSession(ctx context.Context, spec *dao.CreateSessionSpec) (*dao.SessionSpec, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, spec)
	f.nextId++
	return &dao.SessionSpec{Id: f.nextId, Uuid: "uuid-1", PatientId: spec.PatientId}, nil
}

func (f *fakeAPI) AddEmotion(ctx context.Context, sessionId int, spec *dao.AddEmotionSpec) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, spec)
	return nil
}

func capturedAggregate() *Aggregate {
	a := NewAggregator()
	a.Start()
	for _, e := range []string{"happy", "happy", "happy", "neutral", "neutral"} {
		conf := 0.8
		if e == "neutral" {
			conf = 0.6
		}
		a.Record(e, conf)
	}
	return a.Finalize()
}

func TestRecorderSavesThroughAPI(t *testing.T) {
	api := &fakeAPI{}
	fallback, err := store.NewSessionStore(t.TempDir())
	require.NoError(t, err)
	defer fallback.Close()

	r := NewRecorder(api, fallback)
	result, err := r.Save(context.Background(),
		&SaveRequest{PatientId: 7, PsychologistId: 3}, capturedAggregate())
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	assert.Zero(t, result.AppendErrors)
	require.Len(t, api.created, 1)
	assert.Equal(t, "happy", api.created[0].PredominantEmotion)
	assert.Equal(t, 7, api.created[0].PatientId)
	assert.InDelta(t, 0.72, api.created[0].AvgConfidence, 1e-9)
	assert.Len(t, api.appended, 5)

	// nothing written locally on the happy path
	records, err := fallback.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecorderAppendFailuresCountedNotRolledBack(t *testing.T) {
	api := &fakeAPI{appendErr: errors.New("boom")}
	fallback, err := store.NewSessionStore(t.TempDir())
	require.NoError(t, err)
	defer fallback.Close()

	r := NewRecorder(api, fallback)
	result, err := r.Save(context.Background(),
		&SaveRequest{PatientId: 7, PsychologistId: 3}, capturedAggregate())
	require.NoError(t, err)

	assert.False(t, result.Fallback)
	assert.Equal(t, 5, result.AppendErrors)
	assert.Len(t, api.created, 1)
}

func TestRecorderFallsBackOnCreateFailure(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("connection refused")}
	fallback, err := store.NewSessionStore(t.TempDir())
	require.NoError(t, err)
	defer fallback.Close()

	r := NewRecorder(api, fallback)
	result, err := r.Save(context.Background(), &SaveRequest{
		PatientId:        7,
		PsychologistId:   3,
		PatientName:      "Ana Ruiz",
		PatientAge:       29,
		PatientGender:    "female",
		PsychologistName: "Dra. Vega",
		Notes:            "first evaluation",
	}, capturedAggregate())
	require.NoError(t, err)

	assert.True(t, result.Fallback)
	assert.NotEmpty(t, result.Uuid)

	record, err := fallback.FindById(result.Uuid)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Ana Ruiz", record.Paciente.Nombre)
	assert.Equal(t, "happy", record.EmocionPredominante)
	assert.Equal(t, map[string]int{"happy": 3, "neutral": 2}, record.EmocionesDetectadas)
	assert.InDelta(t, 0.72, record.ConfianzaPromedio, 1e-9)
}

func TestRecorderValidatesIds(t *testing.T) {
	api := &fakeAPI{}
	fallback, err := store.NewSessionStore(t.TempDir())
	require.NoError(t, err)
	defer fallback.Close()

	r := NewRecorder(api, fallback)

	_, err = r.Save(context.Background(), &SaveRequest{PatientId: 0, PsychologistId: 3}, capturedAggregate())
	assert.Error(t, err)

	_, err = r.Save(context.Background(), &SaveRequest{PatientId: 7, PsychologistId: 0}, capturedAggregate())
	assert.Error(t, err)

	assert.Empty(t, api.created)
}

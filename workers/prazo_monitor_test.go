package workers

import (
	"testing"
	"time"

	dbpkg "nobilis/db"
	"nobilis/models"
	"nobilis/realtime"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func seedProcesso(t *testing.T, db *gorm.DB, numero, status, prazo string, vencido bool) int64 {
	t.Helper()
	p := models.Processo{
		NumeroProcesso:  numero,
		TipoProcesso:    "IPM",
		Prioridade:      models.PRIORIDADE_MEDIA,
		Status:          status,
		DataInstauracao: "2024-01-01",
		DataPrazo:       prazo,
		PrazoVencido:    vencido,
	}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func vencido(t *testing.T, db *gorm.DB, id int64) bool {
	t.Helper()
	var p models.Processo
	require.NoError(t, db.First(&p, id).Error)
	return p.PrazoVencido
}

func TestPrazoMonitor_RunOnce(t *testing.T) {
	db := openTestDB(t)
	broker := realtime.NewBroker(16)
	events, cancel := broker.Subscribe()
	defer cancel()

	atrasado := seedProcesso(t, db, "IPM-2024-001", models.PROCESSO_STATUS_EM_ANDAMENTO, "2024-05-31", false)
	concluido := seedProcesso(t, db, "IPM-2024-002", models.PROCESSO_STATUS_CONCLUIDO, "2024-05-01", false)
	noPrazo := seedProcesso(t, db, "IPM-2024-003", models.PROCESSO_STATUS_EM_ANDAMENTO, "2024-06-01", false)
	semPrazo := seedProcesso(t, db, "IPM-2024-004", models.PROCESSO_STATUS_EM_ANDAMENTO, "", false)
	regularizado := seedProcesso(t, db, "IPM-2024-005", models.PROCESSO_STATUS_ARQUIVADO, "2024-01-10", true)

	m := NewPrazoMonitor(db, broker)
	m.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }

	res, err := m.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, PrazoResult{Marcados: 1, Desmarcados: 1, Vencidos: 1}, res)

	assert.True(t, vencido(t, db, atrasado))
	assert.False(t, vencido(t, db, concluido))
	assert.False(t, vencido(t, db, noPrazo))
	assert.False(t, vencido(t, db, semPrazo))
	assert.False(t, vencido(t, db, regularizado))

	ids := map[int64]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ev := <-events:
			assert.Equal(t, "processos", ev.Table)
			assert.Equal(t, realtime.ActionUpdate, ev.Action)
			ids[ev.ID] = true
		case <-time.After(time.Second):
			t.Fatal("evento não publicado")
		}
	}
	assert.Equal(t, map[int64]bool{atrasado: true, regularizado: true}, ids)

	res, err = m.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, PrazoResult{Vencidos: 1}, res)
	select {
	case ev := <-events:
		t.Fatalf("evento inesperado: %+v", ev)
	default:
	}
}

func TestPrazoMonitor_AgendaInvalida(t *testing.T) {
	m := NewPrazoMonitor(openTestDB(t), nil)
	assert.Error(t, m.Start("não é cron"))
	<-m.Stop().Done()
}

func TestPrazoMonitor_StartStop(t *testing.T) {
	db := openTestDB(t)
	id := seedProcesso(t, db, "PAD-2020-001", models.PROCESSO_STATUS_EM_ANDAMENTO, "2020-01-01", false)

	m := NewPrazoMonitor(db, nil)
	require.NoError(t, m.Start("@every 1h"))

	assert.Eventually(t, func() bool {
		var p models.Processo
		return db.First(&p, id).Error == nil && p.PrazoVencido
	}, 2*time.Second, 10*time.Millisecond)

	select {
	case <-m.Stop().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("cron não parou")
	}
}

package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	dbpkg "nobilis/db"
	"nobilis/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"golang.org/x/sync/singleflight"
)

type ProcessoStats struct {
	Total         int            `json:"total"`
	PorStatus     map[string]int `json:"por_status"`
	PorPrioridade map[string]int `json:"por_prioridade"`
	PorTipo       map[string]int `json:"por_tipo"`
	PrazoVencido  int            `json:"prazo_vencido"`
	GeradoEm      time.Time      `json:"gerado_em"`
}

// StatsGuard junta chamadas concorrentes num único cálculo e reaproveita o
// resultado enquanto ele for mais novo que minInterval.
type StatsGuard struct {
	minInterval time.Duration
	now         func() time.Time

	group singleflight.Group

	mu     sync.Mutex
	last   *ProcessoStats
	lastAt time.Time
}

func NewStatsGuard(minInterval time.Duration) *StatsGuard {
	return &StatsGuard{minInterval: minInterval, now: time.Now}
}

// Do devolve as estatísticas e se vieram da memória.
func (g *StatsGuard) Do(compute func() (ProcessoStats, error)) (ProcessoStats, bool, error) {
	if g == nil {
		s, err := compute()
		return s, false, err
	}

	if s, ok := g.fresh(); ok {
		return s, true, nil
	}

	v, err, shared := g.group.Do("processos", func() (any, error) {
		if s, ok := g.fresh(); ok {
			return s, nil
		}
		s, err := compute()
		if err != nil {
			return ProcessoStats{}, err
		}
		g.mu.Lock()
		g.last = &s
		g.lastAt = g.now()
		g.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return ProcessoStats{}, false, err
	}
	return v.(ProcessoStats), shared, nil
}

// Reset descarta o resultado guardado.
func (g *StatsGuard) Reset() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.last = nil
	g.mu.Unlock()
}

func (g *StatsGuard) fresh() (ProcessoStats, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last == nil || g.minInterval <= 0 {
		return ProcessoStats{}, false
	}
	if g.now().Sub(g.lastAt) >= g.minInterval {
		return ProcessoStats{}, false
	}
	return *g.last, true
}

type statsRow struct {
	Chave string
	Total int
}

// GET /api/processos/stats
func GetProcessosStats(c *gin.Context) {
	db, ok := dbpkg.Require(c)
	if !ok {
		return
	}

	stats, cached, err := servicesOf(c).Stats.Do(func() (ProcessoStats, error) {
		return ComputeProcessoStats(db, time.Now())
	})
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"stats": stats, "cached": cached})
}

func ComputeProcessoStats(db *gorm.DB, now time.Time) (ProcessoStats, error) {
	s := ProcessoStats{GeradoEm: now}

	if err := db.Model(&models.Processo{}).Count(&s.Total).Error; err != nil {
		return s, fmt.Errorf("contar processos: %w", err)
	}
	if err := db.Model(&models.Processo{}).Where("prazo_vencido = ?", true).Count(&s.PrazoVencido).Error; err != nil {
		return s, fmt.Errorf("contar prazos vencidos: %w", err)
	}

	var err error
	if s.PorStatus, err = groupCount(db, "status", models.ProcessoStatuses); err != nil {
		return s, err
	}
	if s.PorPrioridade, err = groupCount(db, "prioridade", models.Prioridades); err != nil {
		return s, err
	}
	if s.PorTipo, err = groupCount(db, "tipo_processo", nil); err != nil {
		return s, err
	}
	return s, nil
}

// groupCount conta processos por coluna; as chaves em zeros aparecem com 0.
func groupCount(db *gorm.DB, column string, zeros []string) (map[string]int, error) {
	var rows []statsRow
	err := db.Model(&models.Processo{}).
		Select(column + " as chave, count(*) as total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("agrupar por %s: %w", column, err)
	}

	out := make(map[string]int, len(zeros)+len(rows))
	for _, z := range zeros {
		out[z] = 0
	}
	for _, r := range rows {
		out[r.Chave] = r.Total
	}
	return out, nil
}

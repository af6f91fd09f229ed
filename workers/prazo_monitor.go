package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nobilis/metrics"
	"nobilis/models"
	"nobilis/realtime"
	"nobilis/tools"

	"github.com/jinzhu/gorm"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// PrazoMonitor mantém processos.prazo_vencido em dia com a data de hoje.
type PrazoMonitor struct {
	db     *gorm.DB
	broker *realtime.Broker
	now    func() time.Time
	cron   *cron.Cron
	wg     sync.WaitGroup
}

type PrazoResult struct {
	Marcados    int
	Desmarcados int
	Vencidos    int
}

func NewPrazoMonitor(db *gorm.DB, broker *realtime.Broker) *PrazoMonitor {
	return &PrazoMonitor{db: db, broker: broker, now: time.Now}
}

// Start agenda RunOnce em schedule (cron de 5 campos ou @every) e roda uma vez na hora.
func (m *PrazoMonitor) Start(schedule string) error {
	logger := cron.PrintfLogger(log.StandardLogger())
	m.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(logger), cron.Recover(logger)))

	if _, err := m.cron.AddFunc(schedule, m.run); err != nil {
		return fmt.Errorf("prazo monitor: agenda %q: %w", schedule, err)
	}
	m.cron.Start()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run()
	}()

	log.WithField("schedule", schedule).Info("prazo monitor iniciado")
	return nil
}

// Stop para o agendador; o contexto devolvido termina quando as execuções em curso acabarem.
func (m *PrazoMonitor) Stop() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	var cronDone <-chan struct{}
	if m.cron != nil {
		cronDone = m.cron.Stop().Done()
	}
	go func() {
		if cronDone != nil {
			<-cronDone
		}
		m.wg.Wait()
		cancel()
	}()
	return ctx
}

func (m *PrazoMonitor) run() {
	res, err := m.RunOnce()
	if err != nil {
		log.WithError(err).Error("prazo monitor: falha")
		return
	}
	if res.Marcados > 0 || res.Desmarcados > 0 {
		log.WithFields(log.Fields{
			"marcados":    res.Marcados,
			"desmarcados": res.Desmarcados,
			"vencidos":    res.Vencidos,
		}).Info("prazo monitor: processos atualizados")
	}
}

// RunOnce marca os processos em andamento com prazo anterior a hoje e limpa os que deixaram de estar atrasados.
// As atualizações são condicionais: duas execuções simultâneas não publicam o mesmo evento.
func (m *PrazoMonitor) RunOnce() (PrazoResult, error) {
	var res PrazoResult
	hoje := m.now().Format(tools.DateLayout)

	atrasado := "status = ? AND data_prazo IS NOT NULL AND data_prazo <> '' AND data_prazo < ?"

	var marcar []int64
	if err := m.db.Model(&models.Processo{}).
		Where(atrasado, models.PROCESSO_STATUS_EM_ANDAMENTO, hoje).
		Where("prazo_vencido = ?", false).
		Pluck("id", &marcar).Error; err != nil {
		return res, fmt.Errorf("buscar prazos vencidos: %w", err)
	}
	for _, id := range marcar {
		ok, err := m.setFlag(id, true)
		if err != nil {
			return res, err
		}
		if ok {
			res.Marcados++
		}
	}

	var desmarcar []int64
	if err := m.db.Model(&models.Processo{}).
		Where("prazo_vencido = ?", true).
		Where("NOT ("+atrasado+")", models.PROCESSO_STATUS_EM_ANDAMENTO, hoje).
		Pluck("id", &desmarcar).Error; err != nil {
		return res, fmt.Errorf("buscar prazos regularizados: %w", err)
	}
	for _, id := range desmarcar {
		ok, err := m.setFlag(id, false)
		if err != nil {
			return res, err
		}
		if ok {
			res.Desmarcados++
		}
	}

	if err := m.db.Model(&models.Processo{}).Where("prazo_vencido = ?", true).Count(&res.Vencidos).Error; err != nil {
		return res, fmt.Errorf("contar prazos vencidos: %w", err)
	}
	metrics.SetPrazosVencidos(res.Vencidos)
	return res, nil
}

func (m *PrazoMonitor) setFlag(id int64, vencido bool) (bool, error) {
	upd := m.db.Model(&models.Processo{}).
		Where("id = ? AND prazo_vencido = ?", id, !vencido).
		Update("prazo_vencido", vencido)
	if upd.Error != nil {
		return false, fmt.Errorf("atualizar processo %d: %w", id, upd.Error)
	}
	if upd.RowsAffected == 0 {
		return false, nil
	}
	m.broker.Publish(realtime.Event{
		Table:      "processos",
		Action:     realtime.ActionUpdate,
		ID:         id,
		ProcessoID: id,
	})
	return true, nil
}

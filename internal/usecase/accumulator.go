package usecase

import "github.com/barber-finder/internal/domain"

// capWarning - единственное предупреждение при достижении глобального лимита
const capWarning = "result cap reached, further hits were discarded"

// ResultAccumulator - общий дедуплицирующий аккумулятор, который
// протаскивается через все тайлы и страницы одного поиска.
// Идентичность - PlaceID; побеждает первый увиденный хит, повторы
// молча отбрасываются вместе со своими атрибутами.
type ResultAccumulator struct {
	seen     map[string]*domain.PlaceRecord
	order    []string
	limit    int
	full     bool
	warnings []string
}

func NewResultAccumulator(limit int) *ResultAccumulator {
	if limit <= 0 {
		limit = domain.MaxResults
	}
	return &ResultAccumulator{
		seen:  make(map[string]*domain.PlaceRecord),
		limit: limit,
	}
}

// Add складывает один хит. Возвращает true, если хит был принят.
// После достижения лимита аккумулятор не принимает ничего до конца
// поиска; предупреждение записывается ровно один раз.
func (a *ResultAccumulator) Add(hit domain.PlaceRecord) bool {
	if a.full {
		return false
	}
	if hit.PlaceID == "" {
		return false
	}
	if _, ok := a.seen[hit.PlaceID]; ok {
		return false
	}

	rec := hit
	a.seen[hit.PlaceID] = &rec
	a.order = append(a.order, hit.PlaceID)

	if len(a.order) >= a.limit {
		a.full = true
		a.warnings = append(a.warnings, capWarning)
	}

	return true
}

// AddPage складывает все хиты одной страницы
func (a *ResultAccumulator) AddPage(page *domain.SearchPage) {
	for _, hit := range page.Places {
		a.Add(hit)
	}
}

// Full сообщает, достигнут ли глобальный лимит
func (a *ResultAccumulator) Full() bool {
	return a.full
}

// Len возвращает число принятых уникальных записей
func (a *ResultAccumulator) Len() int {
	return len(a.order)
}

// Results возвращает записи в порядке первого появления.
// Записи разделяются с аккумулятором: обогащение мутирует их на месте.
func (a *ResultAccumulator) Results() []*domain.PlaceRecord {
	out := make([]*domain.PlaceRecord, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.seen[id])
	}
	return out
}

// Warnings возвращает накопленные предупреждения
func (a *ResultAccumulator) Warnings() []string {
	return a.warnings
}

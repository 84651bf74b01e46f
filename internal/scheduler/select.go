package scheduler

import (
	"sort"
	"time"

	"github.com/shaiso/Bindsheet/internal/domain"
)

// SelectDue выбирает задачи, которым пора выполняться: NextRun <= now.
//
// Порядок детерминирован: по возрастанию NextRun, при равенстве —
// по возрастанию CompanyID. Исключаются с *domain.ConfigurationError:
//   - строки с interval <= 0;
//   - ВСЕ строки с неуникальным company_id (одна ошибка на каждый
//     лишний дубликат) — иначе одна компания запустилась бы дважды.
//
// Чистая функция от (rows, now) — без скрытого состояния.
func SelectDue(rows []*domain.JobRow, now time.Time) ([]*domain.JobRow, []error) {
	var errs []error

	// считаем вхождения company_id
	seen := make(map[string]int, len(rows))
	for _, row := range rows {
		seen[row.CompanyID]++
	}

	reported := make(map[string]bool)
	var due []*domain.JobRow
	for _, row := range rows {
		if n := seen[row.CompanyID]; n > 1 {
			if !reported[row.CompanyID] {
				reported[row.CompanyID] = true
				for i := 1; i < n; i++ {
					errs = append(errs, &domain.ConfigurationError{
						CompanyID: row.CompanyID,
						Err:       domain.ErrDuplicateCompanyID,
					})
				}
			}
			continue
		}

		if row.Interval <= 0 {
			errs = append(errs, &domain.ConfigurationError{
				CompanyID: row.CompanyID,
				Err:       domain.ErrNonPositiveInterval,
			})
			continue
		}

		if row.IsDue(now) {
			due = append(due, row)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		ni, nj := due[i].NextRun(now), due[j].NextRun(now)
		if ni.Equal(nj) {
			return due[i].CompanyID < due[j].CompanyID
		}
		return ni.Before(nj)
	})

	return due, errs
}

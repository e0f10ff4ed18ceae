// Package adapters はportfolioフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"slices"

	"gorm.io/gorm"

	"stock_portfolio/internal/feature/portfolio/domain/entity"
	"stock_portfolio/internal/feature/portfolio/usecase"
)

// holdingGorm はHoldingRepositoryインターフェースのgorm実装です。
// SQLite と Postgres のどちらの接続でも動作します。
type holdingGorm struct {
	db *gorm.DB
}

var _ usecase.HoldingRepository = (*holdingGorm)(nil)

// NewHoldingRepository は指定されたDB接続でholdingGormリポジトリの新しいインスタンスを生成します。
func NewHoldingRepository(db *gorm.DB) *holdingGorm {
	return &holdingGorm{db: db}
}

// List は登録順（sort_key, id）にすべての保有銘柄を返します。
func (r *holdingGorm) List(ctx context.Context) ([]entity.Holding, error) {
	var holdings []entity.Holding
	if err := r.db.WithContext(ctx).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// Create は保有銘柄を末尾に追加します。同じコードが既にあれば usecase.ErrHoldingExists を返します。
func (r *holdingGorm) Create(ctx context.Context, h *entity.Holding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Holding{}).Where("code = ?", h.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return usecase.ErrHoldingExists
		}

		var maxKey int64
		if err := tx.Model(&entity.Holding{}).Select("COALESCE(MAX(sort_key), -1)").Row().Scan(&maxKey); err != nil {
			return err
		}
		h.SortKey = int(maxKey) + 1
		return tx.Create(h).Error
	})
}

// Get はコードで保有銘柄を1件返します。
func (r *holdingGorm) Get(ctx context.Context, code string) (entity.Holding, error) {
	var h entity.Holding
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Holding{}, usecase.ErrNotFound
	}
	return h, err
}

// Delete はコードで保有銘柄を削除します。
func (r *holdingGorm) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("code = ?", code).Delete(&entity.Holding{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

// UpdatePosition は数量と取得単価を更新します。
func (r *holdingGorm) UpdatePosition(ctx context.Context, code string, p usecase.Position) error {
	res := r.db.WithContext(ctx).Model(&entity.Holding{}).
		Where("code = ?", code).
		Updates(map[string]any{
			"quantity":       p.Quantity,
			"purchase_price": p.PurchasePrice,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

// UpdateSnapshot は最新の相場スナップショットで上書きします。過去の値は保持しません。
// 銘柄名、数量、取得単価は変更しません。
func (r *holdingGorm) UpdateSnapshot(ctx context.Context, code string, s entity.Snapshot) error {
	fields := map[string]any{
		"current_price":      s.CurrentPrice,
		"day_change":         s.DayChange,
		"day_change_percent": s.DayChangePercent,
		"update_time":        s.UpdateTime,
		"check_time":         s.CheckTime,
		"keywords":           entity.JoinKeywords(s.Keywords),
	}
	res := r.db.WithContext(ctx).Model(&entity.Holding{}).
		Where("code = ?", code).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

// Move は保有銘柄を offset 分だけ隣と入れ替え、並び順を振り直します。
// 端を越える移動は何もしません。
func (r *holdingGorm) Move(ctx context.Context, code string, offset int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holdings []entity.Holding
		if err := tx.Order("sort_key ASC").Order("id ASC").Find(&holdings).Error; err != nil {
			return err
		}
		from := slices.IndexFunc(holdings, func(h entity.Holding) bool { return h.Code == code })
		if from < 0 {
			return usecase.ErrNotFound
		}
		to := from + offset
		if to < 0 || to >= len(holdings) {
			return nil
		}
		holdings[from], holdings[to] = holdings[to], holdings[from]

		for i, h := range holdings {
			if h.SortKey == i {
				continue
			}
			if err := tx.Model(&entity.Holding{}).Where("id = ?", h.ID).Update("sort_key", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

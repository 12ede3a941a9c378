package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/renataunda/HuevoPadigal/internal/model"
)

// PostgresSaleRepo はPostgreSQLを使用した販売リポジトリ。
type PostgresSaleRepo struct {
	db *sql.DB
}

// NewPostgresSaleRepo はPostgresSaleRepoを生成する。
func NewPostgresSaleRepo(db *sql.DB) *PostgresSaleRepo {
	return &PostgresSaleRepo{db: db}
}

const saleColumns = `id, client_id, phone_id, address_id, order_date, delivery_date,
	product_type, quantity, unit_price, total_price, recurring, frequency,
	box_weights, total_weight, payment_type, is_paid, notes, created_at, updated_at`

// Create は販売を作成する。
// 顧客・電話番号・住所の存在は外部キー制約で担保される。
func (r *PostgresSaleRepo) Create(ctx context.Context, sale *model.Sale) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sales (`+saleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		sale.ID, sale.ClientID, sale.PhoneID, sale.AddressID, sale.OrderDate, sale.DeliveryDate,
		sale.ProductType, sale.Quantity, sale.UnitPrice, sale.TotalPrice, sale.Recurring,
		frequencyValue(sale.Frequency), pq.Array(sale.BoxWeights), sale.TotalWeight,
		paymentTypeValue(sale.PaymentType), sale.IsPaid, sale.Notes, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// FindByID は指定IDの販売を取得する。見つからない場合はnilを返す。
func (r *PostgresSaleRepo) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)

	sale, err := scanSale(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}

	return sale, nil
}

// List は全販売を注文日の降順で返す。
func (r *PostgresSaleRepo) List(ctx context.Context) ([]*model.Sale, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY order_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []*model.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sales: %w", err)
	}

	return sales, nil
}

// Update は販売情報を更新する。
func (r *PostgresSaleRepo) Update(ctx context.Context, sale *model.Sale) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sales
		 SET client_id = $2, phone_id = $3, address_id = $4, order_date = $5, delivery_date = $6,
		     product_type = $7, quantity = $8, unit_price = $9, total_price = $10, recurring = $11,
		     frequency = $12, box_weights = $13, total_weight = $14, payment_type = $15,
		     is_paid = $16, notes = $17, updated_at = now()
		 WHERE id = $1`,
		sale.ID, sale.ClientID, sale.PhoneID, sale.AddressID, sale.OrderDate, sale.DeliveryDate,
		sale.ProductType, sale.Quantity, sale.UnitPrice, sale.TotalPrice, sale.Recurring,
		frequencyValue(sale.Frequency), pq.Array(sale.BoxWeights), sale.TotalWeight,
		paymentTypeValue(sale.PaymentType), sale.IsPaid, sale.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("sale not found: %s", sale.ID)
	}
	return nil
}

// Delete は指定IDの販売を削除する。
func (r *PostgresSaleRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete sale: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// rowScanner はsql.Rowとsql.Rowsの共通Scanインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSale は1行を販売モデルに変換する。
func scanSale(row rowScanner) (*model.Sale, error) {
	sale := &model.Sale{}
	var frequency, paymentType sql.NullString
	var boxWeights pq.Float64Array

	err := row.Scan(&sale.ID, &sale.ClientID, &sale.PhoneID, &sale.AddressID,
		&sale.OrderDate, &sale.DeliveryDate, &sale.ProductType, &sale.Quantity,
		&sale.UnitPrice, &sale.TotalPrice, &sale.Recurring, &frequency,
		&boxWeights, &sale.TotalWeight, &paymentType, &sale.IsPaid, &sale.Notes,
		&sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if frequency.Valid {
		f := model.Frequency(frequency.String)
		sale.Frequency = &f
	}
	if paymentType.Valid {
		p := model.PaymentType(paymentType.String)
		sale.PaymentType = &p
	}
	sale.BoxWeights = []float64(boxWeights)

	return sale, nil
}

func frequencyValue(f *model.Frequency) any {
	if f == nil {
		return nil
	}
	return string(*f)
}

func paymentTypeValue(p *model.PaymentType) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

// compile-time interface check
var _ SaleRepository = (*PostgresSaleRepo)(nil)

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/renataunda/HuevoPadigal/internal/model"
)

// PostgresClientRepo はPostgreSQLを使用した顧客リポジトリ。
type PostgresClientRepo struct {
	db *sql.DB
}

// NewPostgresClientRepo はPostgresClientRepoを生成する。
func NewPostgresClientRepo(db *sql.DB) *PostgresClientRepo {
	return &PostgresClientRepo{db: db}
}

// Create は顧客と住所・電話番号を同一トランザクションで作成する。
func (r *PostgresClientRepo) Create(ctx context.Context, client *model.Client) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO clients (id, name, email, registration_date, is_active, notes, client_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		client.ID, client.Name, client.Email, client.RegistrationDate,
		client.IsActive, client.Notes, client.ClientType, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}

	if err := insertContacts(ctx, tx, client); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID は指定IDの顧客を住所・電話番号付きで取得する。見つからない場合はnilを返す。
func (r *PostgresClientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	client := &model.Client{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, registration_date, is_active, notes, client_type, created_at, updated_at
		 FROM clients WHERE id = $1`,
		id,
	).Scan(&client.ID, &client.Name, &client.Email, &client.RegistrationDate,
		&client.IsActive, &client.Notes, &client.ClientType, &client.CreatedAt, &client.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}

	if err := r.loadContacts(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// List は全顧客を住所・電話番号付きで返す。
func (r *PostgresClientRepo) List(ctx context.Context) ([]*model.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, registration_date, is_active, notes, client_type, created_at, updated_at
		 FROM clients ORDER BY registration_date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*model.Client
	for rows.Next() {
		client := &model.Client{}
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.RegistrationDate,
			&client.IsActive, &client.Notes, &client.ClientType, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	for _, client := range clients {
		if err := r.loadContacts(ctx, client); err != nil {
			return nil, err
		}
	}

	return clients, nil
}

// Update は顧客情報を更新し、住所・電話番号を入れ替える。
// 連絡先はDELETE+INSERTで全置換する。部分更新は提供しない。
func (r *PostgresClientRepo) Update(ctx context.Context, client *model.Client) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE clients
		 SET name = $2, email = $3, registration_date = $4, is_active = $5, notes = $6, client_type = $7, updated_at = now()
		 WHERE id = $1`,
		client.ID, client.Name, client.Email, client.RegistrationDate,
		client.IsActive, client.Notes, client.ClientType,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("client not found: %s", client.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM client_addresses WHERE client_id = $1`, client.ID); err != nil {
		return fmt.Errorf("failed to delete client addresses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM client_phones WHERE client_id = $1`, client.ID); err != nil {
		return fmt.Errorf("failed to delete client phones: %w", err)
	}

	if err := insertContacts(ctx, tx, client); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete は指定IDの顧客を削除する。住所・電話番号はCASCADE削除される。
func (r *PostgresClientRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete client: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// SetActive は顧客の有効フラグを更新する。
func (r *PostgresClientRepo) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE clients SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update client active flag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// loadContacts は顧客の住所と電話番号を読み込む。
func (r *PostgresClientRepo) loadContacts(ctx context.Context, client *model.Client) error {
	addrRows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, address_line, neighborhood, zone, is_active
		 FROM client_addresses WHERE client_id = $1 ORDER BY id`,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to list client addresses: %w", err)
	}
	defer addrRows.Close()

	client.Addresses = nil
	for addrRows.Next() {
		var a model.ClientAddress
		if err := addrRows.Scan(&a.ID, &a.ClientID, &a.AddressLine, &a.Neighborhood, &a.Zone, &a.IsActive); err != nil {
			return fmt.Errorf("failed to scan client address: %w", err)
		}
		client.Addresses = append(client.Addresses, a)
	}
	if err := addrRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate client addresses: %w", err)
	}

	phoneRows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, phone_number, is_active
		 FROM client_phones WHERE client_id = $1 ORDER BY id`,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to list client phones: %w", err)
	}
	defer phoneRows.Close()

	client.Phones = nil
	for phoneRows.Next() {
		var p model.ClientPhone
		if err := phoneRows.Scan(&p.ID, &p.ClientID, &p.PhoneNumber, &p.IsActive); err != nil {
			return fmt.Errorf("failed to scan client phone: %w", err)
		}
		client.Phones = append(client.Phones, p)
	}
	if err := phoneRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate client phones: %w", err)
	}

	return nil
}

// insertContacts は顧客の住所と電話番号をトランザクション内で挿入する。
func insertContacts(ctx context.Context, tx *sql.Tx, client *model.Client) error {
	for _, a := range client.Addresses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO client_addresses (id, client_id, address_line, neighborhood, zone, is_active)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			a.ID, client.ID, a.AddressLine, a.Neighborhood, a.Zone, a.IsActive,
		)
		if err != nil {
			return fmt.Errorf("failed to insert client address: %w", err)
		}
	}

	for _, p := range client.Phones {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO client_phones (id, client_id, phone_number, is_active)
			 VALUES ($1, $2, $3, $4)`,
			p.ID, client.ID, p.PhoneNumber, p.IsActive,
		)
		if err != nil {
			return fmt.Errorf("failed to insert client phone: %w", err)
		}
	}

	return nil
}

// compile-time interface check
var _ ClientRepository = (*PostgresClientRepo)(nil)

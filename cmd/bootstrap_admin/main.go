// bootstrap_admin otorga el rol admin a una identidad existente y, opcionalmente,
// importa proveedores desde un CSV (nombre;nit;email;telefono;direccion;contacto).
//
// Uso: go run ./cmd/bootstrap_admin --email admin@empresa.com [--suppliers proveedores.csv] [--latin1]
// Lee la misma configuración que la API (DATABASE_URL, DB_*).
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Contratos-api/internal/application/ports"
	"github.com/jhoicas/Contratos-api/internal/application/provisioning"
	"github.com/jhoicas/Contratos-api/internal/application/usecase"
	"github.com/jhoicas/Contratos-api/internal/domain"
	"github.com/jhoicas/Contratos-api/internal/domain/authz"
	"github.com/jhoicas/Contratos-api/internal/domain/entity"
	"github.com/jhoicas/Contratos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Contratos-api/pkg/config"
	"github.com/jhoicas/Contratos-api/pkg/logger"
)

func main() {
	email := pflag.String("email", "", "email de la identidad que recibe el rol admin")
	suppliersPath := pflag.String("suppliers", "", "CSV de proveedores a importar (separador ;)")
	latin1 := pflag.Bool("latin1", false, "el CSV está codificado en ISO-8859-1")
	pflag.Parse()

	if *email == "" && *suppliersPath == "" {
		fmt.Fprintln(os.Stderr, "Indique --email y/o --suppliers")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "bootstrap_admin"})

	if err := run(cfg, log, *email, *suppliersPath, *latin1); err != nil {
		log.Fatal().Err(err).Msg("bootstrap_admin")
	}
}

func run(cfg *config.Config, log *logger.Logger, email, suppliersPath string, latin1 bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Named("migrate").Zerolog()); err != nil {
			return fmt.Errorf("migraciones: %w", err)
		}
	}
	store := postgres.NewStore(pool)
	recorder := usecase.NewAuditRecorder(nil)

	if email != "" {
		if err := grantAdmin(ctx, store, recorder, email); err != nil {
			return fmt.Errorf("otorgar admin a %s: %w", email, err)
		}
		log.Info().Str("email", email).Msg("rol admin asignado")
	}

	if suppliersPath != "" {
		n, err := importSuppliers(ctx, store, recorder, suppliersPath, latin1)
		if err != nil {
			return fmt.Errorf("importar proveedores de %s: %w", suppliersPath, err)
		}
		log.Info().Int("imported", n).Msg("proveedores importados")
	}
	return nil
}

// grantAdmin asigna admin a la identidad con ese email; repara antes el provisioning.
func grantAdmin(ctx context.Context, store ports.Store, recorder *usecase.AuditRecorder, email string) error {
	provisioner := provisioning.NewProvisioner(recorder)
	return store.Run(ctx, func(r ports.Repos) error {
		identity, err := r.Identities.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			return err
		}
		if identity == nil {
			return domain.ErrUserNotFound
		}
		if _, err := provisioner.Provision(ctx, r, identity); err != nil {
			return err
		}
		current, err := r.Roles.GetByUserID(ctx, identity.ID)
		if err != nil {
			return err
		}
		if current != nil && current.Role == entity.RoleAdmin {
			return nil
		}
		now := time.Now().UTC()
		row := &entity.UserRole{ID: uuid.New().String(), UserID: identity.ID, Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}
		if err := r.Roles.Upsert(ctx, row); err != nil {
			return err
		}
		before := map[string]string{"role": string(entity.DefaultRole)}
		if current != nil {
			before["role"] = string(current.Role)
		}
		return recorder.Record(ctx, r.Audit, authz.Actor{}, entity.AuditUpdate, entity.TableUserRoles, row.ID, before, map[string]string{"role": string(row.Role)})
	})
}

// importSuppliers inserta los proveedores del CSV en una transacción; NIT repetido se omite.
func importSuppliers(ctx context.Context, store ports.Store, recorder *usecase.AuditRecorder, path string, latin1 bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var in io.Reader = f
	if latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	rd := csv.NewReader(in)
	rd.Comma = ';'
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	rows, err := rd.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("leer CSV: %w", err)
	}

	imported := 0
	err = store.Run(ctx, func(r ports.Repos) error {
		seen := make(map[string]struct{})
		for i, rec := range rows {
			if i == 0 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "nombre") {
				continue // encabezado
			}
			s := supplierFromRecord(rec)
			if s == nil {
				continue
			}
			if s.TaxID != "" {
				if _, dup := seen[s.TaxID]; dup {
					continue
				}
				seen[s.TaxID] = struct{}{}
			}
			if err := r.Suppliers.Create(ctx, s); err != nil {
				if errors.Is(err, domain.ErrDuplicate) {
					return fmt.Errorf("línea %d: NIT %s ya existe: %w", i+1, s.TaxID, err)
				}
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			snap := map[string]any{"name": s.Name, "tax_id": s.TaxID, "email": s.Email}
			if err := recorder.Record(ctx, r.Audit, authz.Actor{}, entity.AuditInsert, entity.TableSuppliers, s.ID, nil, snap); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

func supplierFromRecord(rec []string) *entity.Supplier {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	name := field(0)
	if name == "" {
		return nil
	}
	now := time.Now().UTC()
	return &entity.Supplier{
		ID:          uuid.New().String(),
		Name:        name,
		TaxID:       field(1),
		Email:       field(2),
		Phone:       field(3),
		Address:     field(4),
		ContactName: field(5),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

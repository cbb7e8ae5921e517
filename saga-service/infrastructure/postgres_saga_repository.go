package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/magasin-labs/checkout-system/saga-service/domain"
	"github.com/magasin-labs/checkout-system/shared/models"
)

// PostgresSagaRepository implements SagaRepository using PostgreSQL.
// The aggregate row is upserted on every save and the event log is
// append-only in its own table, so the audit trail survives any later
// state change.
type PostgresSagaRepository struct {
	db *sqlx.DB
}

// NewPostgresSagaRepository creates a new PostgresSagaRepository
func NewPostgresSagaRepository(db *sqlx.DB) *PostgresSagaRepository {
	return &PostgresSagaRepository{db: db}
}

// postgresSaga represents a saga in the database
type postgresSaga struct {
	ID                 string         `db:"id"`
	ClientID           string         `db:"client_id"`
	MagasinID          string         `db:"magasin_id"`
	EtatActuel         string         `db:"etat_actuel"`
	LignesCommande     []byte         `db:"lignes_commande"`
	ReservationsStock  []byte         `db:"reservations_stock"`
	CommandeFinaleID   sql.NullString `db:"commande_finale_id"`
	DonneesContexte    []byte         `db:"donnees_contexte"`
	DureeEtapes        []byte         `db:"duree_etapes"`
	TentativesParEtape []byte         `db:"tentatives_par_etape"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// postgresEvenement represents one saga event in the database
type postgresEvenement struct {
	ID            string    `db:"id"`
	SagaID        string    `db:"saga_id"`
	Position      int       `db:"position"`
	TypeEvenement string    `db:"type_evenement"`
	EtatPrecedent string    `db:"etat_precedent"`
	NouvelEtat    string    `db:"nouvel_etat"`
	Donnees       []byte    `db:"donnees"`
	Message       string    `db:"message"`
	Timestamp     time.Time `db:"timestamp"`
}

// Save upserts the aggregate row and appends any events not yet
// persisted, in one transaction.
func (r *PostgresSagaRepository) Save(ctx context.Context, saga *domain.SagaCommande) error {
	pgSaga, err := r.toPostgres(saga)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin saga transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO saga_commandes (
			id, client_id, magasin_id, etat_actuel, lignes_commande,
			reservations_stock, commande_finale_id, donnees_contexte,
			duree_etapes, tentatives_par_etape, created_at, updated_at
		) VALUES (
			:id, :client_id, :magasin_id, :etat_actuel, :lignes_commande,
			:reservations_stock, :commande_finale_id, :donnees_contexte,
			:duree_etapes, :tentatives_par_etape, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			etat_actuel = EXCLUDED.etat_actuel,
			lignes_commande = EXCLUDED.lignes_commande,
			reservations_stock = EXCLUDED.reservations_stock,
			commande_finale_id = EXCLUDED.commande_finale_id,
			donnees_contexte = EXCLUDED.donnees_contexte,
			duree_etapes = EXCLUDED.duree_etapes,
			tentatives_par_etape = EXCLUDED.tentatives_par_etape,
			updated_at = EXCLUDED.updated_at`

	if _, err := tx.NamedExecContext(ctx, query, pgSaga); err != nil {
		return errors.Wrap(err, "failed to upsert saga")
	}

	var persisted int
	countQuery := `SELECT COUNT(*) FROM saga_evenements WHERE saga_id = $1`
	if err := tx.GetContext(ctx, &persisted, countQuery, saga.ID.String()); err != nil {
		return errors.Wrap(err, "failed to count saga events")
	}

	insertEvent := `
		INSERT INTO saga_evenements (
			id, saga_id, position, type_evenement, etat_precedent,
			nouvel_etat, donnees, message, timestamp
		) VALUES (
			:id, :saga_id, :position, :type_evenement, :etat_precedent,
			:nouvel_etat, :donnees, :message, :timestamp
		)`

	for i := persisted; i < len(saga.Evenements); i++ {
		pgEvent, err := r.evenementToPostgres(saga.ID, i, saga.Evenements[i])
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertEvent, pgEvent); err != nil {
			return errors.Wrap(err, "failed to insert saga event")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit saga transaction")
	}
	return nil
}

// FindByID finds a saga by ID, rebuilding the aggregate with its full
// event log. Returns nil when no saga exists.
func (r *PostgresSagaRepository) FindByID(ctx context.Context, id models.ID) (*domain.SagaCommande, error) {
	query := `
		SELECT id, client_id, magasin_id, etat_actuel, lignes_commande,
			   reservations_stock, commande_finale_id, donnees_contexte,
			   duree_etapes, tentatives_par_etape, created_at, updated_at
		FROM saga_commandes
		WHERE id = $1`

	var pgSaga postgresSaga
	err := r.db.GetContext(ctx, &pgSaga, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Saga not found
		}
		return nil, errors.Wrap(err, "failed to find saga")
	}

	eventsQuery := `
		SELECT id, saga_id, position, type_evenement, etat_precedent,
			   nouvel_etat, donnees, message, timestamp
		FROM saga_evenements
		WHERE saga_id = $1
		ORDER BY position ASC`

	var pgEvents []postgresEvenement
	if err := r.db.SelectContext(ctx, &pgEvents, eventsQuery, id.String()); err != nil {
		return nil, errors.Wrap(err, "failed to load saga events")
	}

	return r.toDomain(&pgSaga, pgEvents)
}

// toPostgres converts the domain saga to its postgres model
func (r *PostgresSagaRepository) toPostgres(saga *domain.SagaCommande) (*postgresSaga, error) {
	lignes, err := json.Marshal(saga.LignesCommande)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode order lines")
	}
	reservations, err := json.Marshal(saga.ReservationStockIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode reservations")
	}
	contexte, err := json.Marshal(saga.DonneesContexte)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode context data")
	}
	durees, err := json.Marshal(saga.DureeEtapes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode step durations")
	}
	tentatives, err := json.Marshal(saga.TentativesParEtape)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode step attempts")
	}

	var commandeID sql.NullString
	if !saga.CommandeFinaleID.IsZero() {
		commandeID = sql.NullString{String: saga.CommandeFinaleID.String(), Valid: true}
	}

	return &postgresSaga{
		ID:                 saga.ID.String(),
		ClientID:           saga.ClientID.String(),
		MagasinID:          saga.MagasinID.String(),
		EtatActuel:         string(saga.EtatActuel),
		LignesCommande:     lignes,
		ReservationsStock:  reservations,
		CommandeFinaleID:   commandeID,
		DonneesContexte:    contexte,
		DureeEtapes:        durees,
		TentativesParEtape: tentatives,
		CreatedAt:          saga.Timestamps.CreatedAt,
		UpdatedAt:          saga.Timestamps.UpdatedAt,
	}, nil
}

// evenementToPostgres converts one domain event to its postgres model
func (r *PostgresSagaRepository) evenementToPostgres(sagaID models.ID, position int, evt domain.EvenementSaga) (*postgresEvenement, error) {
	donnees, err := json.Marshal(evt.Donnees)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode event data")
	}
	return &postgresEvenement{
		ID:            evt.ID.String(),
		SagaID:        sagaID.String(),
		Position:      position,
		TypeEvenement: string(evt.TypeEvenement),
		EtatPrecedent: string(evt.EtatPrecedent),
		NouvelEtat:    string(evt.NouvelEtat),
		Donnees:       donnees,
		Message:       evt.Message,
		Timestamp:     evt.Timestamp,
	}, nil
}

// toDomain converts postgres models back to the domain saga
func (r *PostgresSagaRepository) toDomain(pgSaga *postgresSaga, pgEvents []postgresEvenement) (*domain.SagaCommande, error) {
	id, err := models.NewID(pgSaga.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid saga ID")
	}
	clientID, err := models.NewID(pgSaga.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid client ID")
	}
	magasinID, err := models.NewID(pgSaga.MagasinID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid magasin ID")
	}

	var lignes []domain.LigneCommande
	if err := json.Unmarshal(pgSaga.LignesCommande, &lignes); err != nil {
		return nil, errors.Wrap(err, "failed to decode order lines")
	}
	reservations := make(map[string]string)
	if err := json.Unmarshal(pgSaga.ReservationsStock, &reservations); err != nil {
		return nil, errors.Wrap(err, "failed to decode reservations")
	}
	contexte := make(map[string]any)
	if err := json.Unmarshal(pgSaga.DonneesContexte, &contexte); err != nil {
		return nil, errors.Wrap(err, "failed to decode context data")
	}
	durees := make(map[string]float64)
	if err := json.Unmarshal(pgSaga.DureeEtapes, &durees); err != nil {
		return nil, errors.Wrap(err, "failed to decode step durations")
	}
	tentatives := make(map[string]int)
	if err := json.Unmarshal(pgSaga.TentativesParEtape, &tentatives); err != nil {
		return nil, errors.Wrap(err, "failed to decode step attempts")
	}

	// The order id comes from the downstream service and is stored
	// verbatim, it is not necessarily a UUID.
	var commandeID models.ID
	if pgSaga.CommandeFinaleID.Valid {
		commandeID = models.ID(pgSaga.CommandeFinaleID.String)
	}

	evenements := make([]domain.EvenementSaga, len(pgEvents))
	for i, pgEvt := range pgEvents {
		evtID, err := models.NewID(pgEvt.ID)
		if err != nil {
			return nil, errors.Wrap(err, "invalid event ID")
		}
		donnees := make(map[string]any)
		if err := json.Unmarshal(pgEvt.Donnees, &donnees); err != nil {
			return nil, errors.Wrap(err, "failed to decode event data")
		}
		evenements[i] = domain.EvenementSaga{
			ID:            evtID,
			TypeEvenement: domain.TypeEvenement(pgEvt.TypeEvenement),
			Timestamp:     pgEvt.Timestamp,
			EtatPrecedent: domain.EtatSaga(pgEvt.EtatPrecedent),
			NouvelEtat:    domain.EtatSaga(pgEvt.NouvelEtat),
			Donnees:       donnees,
			Message:       pgEvt.Message,
		}
	}

	return &domain.SagaCommande{
		ID:                  id,
		ClientID:            clientID,
		MagasinID:           magasinID,
		LignesCommande:      lignes,
		EtatActuel:          domain.EtatSaga(pgSaga.EtatActuel),
		Evenements:          evenements,
		ReservationStockIDs: reservations,
		CommandeFinaleID:    commandeID,
		DonneesContexte:     contexte,
		DureeEtapes:         durees,
		TentativesParEtape:  tentatives,
		Timestamps: models.Timestamps{
			CreatedAt: pgSaga.CreatedAt,
			UpdatedAt: pgSaga.UpdatedAt,
		},
	}, nil
}

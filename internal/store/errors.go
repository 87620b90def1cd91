package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrStorageFailure wraps every error of ApplyBatch. The batch was not
	// applied and the checkpoint kept its previous value.
	ErrStorageFailure = errors.New("storage failure")

	// ErrEntityNotFound is returned when a requested entity is not stored.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrWrongCollection is returned when a batch carries an entity of a
	// collection other than the batch collection.
	ErrWrongCollection = errors.New("entity does not belong to batch collection")

	// ErrUnsupportedDriver is returned for an unknown storage driver name.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")

	// ErrInvalidDSN is returned when the database connection string cannot
	// be parsed.
	ErrInvalidDSN = errors.New("invalid database dsn")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")
)

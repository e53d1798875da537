// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (identity, session cache) and contracts (stores,
// services) only.
package domain

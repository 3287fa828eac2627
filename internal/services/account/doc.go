// Package account defines the persistence and authentication boundary of the
// Maze game.
//
// It owns user accounts, credential verification, level-completion scores,
// and per-user country unlock progress so gameplay code can depend on stable
// user IDs and access checks instead of re-implementing identity rules.
//
// Subpackages:
//   - app: public store operations and one-shot legacy snapshot import
//   - user: credential input normalization and validation
//   - password: salted PBKDF2 credential hashing
//   - storage: persistence interfaces and the SQLite implementation
package account

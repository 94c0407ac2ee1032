// Package policy hosts the swappable decision points of the front desk:
// which free table a group is seated at and which waiting group takes a
// vacated table.  Policies are plain functions so tests can pin the exact
// tie-break behaviour, and a Policy value can travel with a context so that
// embedding applications override decisions without rewiring services.
package policy

// Package domain models residential insurance claim ("sinistro") events and
// the policies they attach to.
//
// # Data Conventions
//
// Claim types are a closed set of weather perils common to the Brazilian
// residential portfolio: alagamento (flood), vendaval (windstorm), granizo
// (hail), incendio (wildfire), raio (lightning), tempestade (storm), tornado,
// and seca (drought). Type and cause tags are lowercase ASCII so they behave
// as stable identifiers in JSON payloads and Kafka headers; display strings
// downstream may carry accents.
//
// Monetary values are in BRL. Every synthesized loss is clamped to a floor of
// 1000.00 — below that threshold an occurrence does not open a claim file.
//
// # Severity Bands
//
// Severity is a deterministic function of the loss / insured-value ratio:
//
//	< 0.1  leve
//	< 0.3  moderado
//	< 0.6  grave
//	< 0.9  severo
//	≥ 0.9  catastrofico
//
// Bands are half-open on the upper bound. The ratio can exceed 1.0 (ancillary
// costs beyond the coverage limit, e.g. debris removal after a wildfire), so
// catastrofico is unbounded above. See [SeverityFor].
//
// # ID Generation
//
// Event IDs are deterministic SHA-256 short hashes of
// policyID|type|timestamp|loss, prefixed with the claim type. Determinism
// keeps a fixed-seed generation run byte-identical end to end and enables
// idempotent upserts downstream (ON CONFLICT DO NOTHING). See [NewEventID].
package domain

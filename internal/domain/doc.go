// Package domain models ocean hazard report verification.
//
// # Reports and History
//
// A report carries a free-form type ("oil spill", "Flood", "rip current"), a
// locality and a free-text description. Locality is the submitted pincode, or
// the free-text location when no pincode was given. Both type and locality are
// compared trimmed and lower-cased. The history store is the append-only file
// the reporting backend writes:
//
//	{"reports": [{"type": "oil spill", "pincode": "400001", "description": "..."}, ...]}
//
// History is read fresh for every verification and never locked; the snapshot
// may trail concurrent writers.
//
// # Signals
//
// Every signal is a score in [0, 1]:
//
//	keywords   1.0 if the description contains a hazard keyword as a substring
//	nlp        zero-shot probability of the "ocean hazard" label, 0.0 on failure
//	history    min(1, type_count/3)  reports of the same type anywhere
//	consensus  min(1, pair_count/3)  reports of the same type and locality
//
// Counts of exactly zero score exactly zero. Three corroborating reports
// saturate a corroboration signal.
//
// # Fusion
//
// A [FusionPolicy] names a weighting over signals and a decision threshold.
// Two policies exist and are mutually exclusive:
//
//	corroboration  consensus*0.60 + history*0.40   (default)
//	nlp-keyword    nlp*0.60 + keywords*0.40
//
// A report is a hazard when the unrounded confidence is strictly greater than
// the threshold (0.70). Reported confidences are rounded to three decimals.
//
// # Aggregates
//
// [Aggregate] scores every (type, pincode) pair in the last [AggregateWindow]
// records. Records without a pincode are left out even when they carry a
// location. In that view consensus and history are the same soft-capped count.
package domain

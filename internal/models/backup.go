package models

import "time"

// SystemFlag is one key/value entry in the system collection, such as
// the setup_complete marker.
type SystemFlag struct {
	Key   string `bson:"key" json:"key"`
	Value bool   `bson:"value" json:"value"`
}

// Backup is a full dump of every collection. Restore replaces each
// collection wholesale with the documents recorded here.
type Backup struct {
	BackupDate      time.Time        `json:"backup_date"`
	Users           []User           `json:"users"`
	Licenses        []License        `json:"licenses"`
	TrackingRecords []TrackingRecord `json:"tracking_records"`
	System          []SystemFlag     `json:"system"`
}

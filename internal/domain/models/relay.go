package models

// PointRelais is a parcel locker location returned by the Mondial Relay
// lookup. All fields are strings as delivered by the provider, including
// Latitude/Longitude (the consumer applies the provider-specific scaling).
type PointRelais struct {
	ID        string `json:"ID"`
	Nom       string `json:"Nom"`
	Adresse1  string `json:"Adresse1"`
	CP        string `json:"CP"`
	Ville     string `json:"Ville"`
	Latitude  string `json:"Latitude"`
	Longitude string `json:"Longitude"`
}

package domain

// Option is a labelled choice offered by a form.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// States lists the Indian states offered on the farmer profile form.
var States = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
}

// SoilTypes lists the soil types offered on the profile and recommendation forms.
var SoilTypes = []Option{
	{Label: "Sandy", Value: "Sandy"},
	{Label: "Loamy", Value: "Loamy"},
	{Label: "Clay", Value: "Clay"},
	{Label: "Silt", Value: "Silt"},
	{Label: "Peat", Value: "Peat"},
	{Label: "Chalky", Value: "Chalky"},
}

// Seasons lists the cropping seasons offered on the recommendation form.
var Seasons = []Option{
	{Label: "Kharif (Monsoon)", Value: "Kharif"},
	{Label: "Rabi (Winter)", Value: "Rabi"},
	{Label: "Zaid (Summer)", Value: "Zaid"},
}

func isState(s string) bool {
	for _, st := range States {
		if st == s {
			return true
		}
	}
	return false
}

func isSoilType(s string) bool {
	for _, o := range SoilTypes {
		if o.Value == s {
			return true
		}
	}
	return false
}

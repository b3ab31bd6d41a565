package domain

// HealthAdvice derives public health guidance from a weather reading, shown
// alongside current conditions in the read API. Weather codes follow the WMO
// interpretation used by Open-Meteo: 3 = overcast (dusty air in the Sahel),
// 61/63/65 = rain of increasing intensity.
func HealthAdvice(r Reading) []string {
	var conseils []string

	switch {
	case r.Temperature > 40:
		conseils = append(conseils, "Température extrême ! Restez à l'intérieur.")
	case r.Temperature > 35:
		conseils = append(conseils, "Buvez beaucoup d'eau et évitez le soleil.")
	case r.Temperature > 30:
		conseils = append(conseils, "Portez des vêtements légers et hydratez-vous.")
	}

	if r.Humidity > 80 {
		conseils = append(conseils, "Humidité élevée, risque de moustiques.")
	}

	if r.UVIndex != nil && *r.UVIndex > 7 {
		conseils = append(conseils, "Indice UV élevé, utilisez de la crème solaire.")
	}

	switch r.WeatherCode {
	case 61, 63, 65:
		conseils = append(conseils, "Pluie prévue, attention au paludisme.")
	case 3:
		conseils = append(conseils, "Air poussiéreux, portez un masque.")
	}

	if len(conseils) == 0 {
		return []string{"Conditions météo normales."}
	}
	return conseils
}

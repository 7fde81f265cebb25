package usecase

import (
	"fmt"
	"html/template"
	"strings"

	"dining-concierge/internal/domain"
)

const (
	subjectFirstTime      = "Restaurant Recommendations"
	subjectPreviousSearch = "Restaurant Recommendations based on previous search"

	textFirstTime      = "Here are your recommendations!"
	textPreviousSearch = "Here are some fresh recommendations based on your previous search!"
)

var suggestionsTemplate = template.Must(template.New("suggestions").Parse(`<html><head></head><body>
<p>Here are the requested suggestions for the following details:<br>
Location: {{.Location}}<br>
Cuisine: {{.Cuisine}}<br>
{{- if .PartySize}}
Number of people: {{.PartySize}}<br>
{{- end}}
{{- if .DiningDate}}
Date: {{.DiningDate}}<br>
{{- end}}
{{- if .DiningTime}}
Time: {{.DiningTime}}<br>
{{- end}}
</p>
{{- if .Restaurants}}
<p><table style="width: 100%; border-collapse: collapse; border: 1px solid #ddd;">
<tr style="background-color: #f2f2f2;">
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Name</th>
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Rating</th>
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Review Count</th>
<th style="padding: 8px; text-align: left; border-bottom: 1px solid #ddd;">Address</th>
</tr>
{{- range .Restaurants}}
<tr>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Name}}</td>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Rating}}</td>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.ReviewCount}}</td>
<td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Address}}</td>
</tr>
{{- end}}
</table></p>
{{- else}}
<p>We could not find any matching restaurants this time. Please try again later.</p>
{{- end}}
</body></html>`))

type suggestionsEmail struct {
	Location    string
	Cuisine     string
	PartySize   int
	DiningDate  string
	DiningTime  string
	Restaurants []restaurantRow
}

type restaurantRow struct {
	Name        string
	Rating      float64
	ReviewCount int
	Address     string
}

// renderSuggestionsEmail renders the notification HTML: a header block with
// the request details and a table of the resolved restaurants, or a
// no-matches paragraph when the table would be empty.
func renderSuggestionsEmail(in RecommendInput, restaurants []domain.RestaurantRecord) (string, error) {
	data := suggestionsEmail{
		Location:   in.Location,
		Cuisine:    in.Cuisine,
		PartySize:  in.PartySize,
		DiningDate: in.DiningDate,
		DiningTime: in.DiningTime,
	}
	for _, r := range restaurants {
		data.Restaurants = append(data.Restaurants, restaurantRow{
			Name:        r.Name,
			Rating:      r.Rating,
			ReviewCount: r.ReviewCount,
			Address:     cleanAddress(r.Address),
		})
	}

	var b strings.Builder
	if err := suggestionsTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("usecase: render suggestions email: %w", err)
	}
	return b.String(), nil
}

func notificationText(fromPreviousSearch bool) (subject, textBody string) {
	if fromPreviousSearch {
		return subjectPreviousSearch, textPreviousSearch
	}
	return subjectFirstTime, textFirstTime
}

// cleanAddress strips the list-literal punctuation the data-provisioning job
// left in stored addresses, e.g. `['123 Main St', 'New York']`.
func cleanAddress(address string) string {
	replacer := strings.NewReplacer("[", "", "]", "", "'", "", `"`, "")
	return strings.TrimSpace(replacer.Replace(address))
}

package headhunter

// Locator names a selector so fallback decisions show up in logs.
type Locator struct {
	Name     string
	Selector string
}

// jobLinkLocators are tried in order on each results page; the first one
// that matches anything wins. Job boards rotate their markup, so several
// generations of it are covered.
var jobLinkLocators = []Locator{
	{Name: "title-heading", Selector: "h2.jobTitle a"},
	{Name: "card-title", Selector: "a.jcs-JobTitle"},
	{Name: "data-jk", Selector: "a[data-jk]"},
	{Name: "viewjob-href", Selector: "a[href*=/viewjob]"},
	{Name: "seen-beacon", Selector: "div.job_seen_beacon a"},
}

// nextPageLocators find the pagination control for the following page.
var nextPageLocators = []Locator{
	{Name: "pagination-testid", Selector: "a[data-testid=pagination-page-next]"},
	{Name: "aria-label", Selector: "a[aria-label=Next Page]"},
}

// descriptionLocators find the posting body on a job detail page. The whole
// document body is the last resort.
var descriptionLocators = []Locator{
	{Name: "description-container", Selector: "#jobDescriptionText"},
	{Name: "page-body", Selector: "body"},
}

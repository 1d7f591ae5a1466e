package models

// DefaultExamples are the preset questions offered when the server
// does not publish its own list.
var DefaultExamples = []string{
	"Compare rainfall in Maharashtra and Kerala for last 5 years",
	"Show top crops in Punjab",
	"Show production trend of Rice in Tamil Nadu",
	"What are the statistics for Karnataka?",
	"Compare monsoon rainfall between Gujarat and Rajasthan",
}

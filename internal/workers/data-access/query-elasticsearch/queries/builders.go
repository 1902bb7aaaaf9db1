package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ElasticsearchQuery defines the structure of a query request
type ElasticsearchQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	AdvocateID string
	Industry   string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(esClient *elasticsearch.Client, eq ElasticsearchQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "advocate_index":
		queryBody = buildAdvocateSearchQuery(eq)
	case "related_advocates":
		queryBody = buildRelatedAdvocatesQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index:  []string{eq.Index},
		Body:   strings.NewReader(string(body)),
		From:   &eq.Pagination.From,
		Size:   &eq.Pagination.Size,
		Pretty: true,
	}

	return &req, nil
}

// buildAdvocateSearchQuery builds the main advocate search query dynamically
func buildAdvocateSearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	// Keyword search
	if keywords, ok := eq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "bio^2", "expertise_areas"},
				"type":   "best_fields",
			},
		})
	}

	// Industry filter
	if industry, ok := eq.Filters["industry"].(string); ok && industry != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"industry": industry},
		})
	} else if eq.Industry != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"industry": eq.Industry},
		})
	}

	// Geographic region filter
	if region, ok := eq.Filters["region"].(string); ok && region != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"geographic_region": region},
		})
	}

	// Status filter
	if status, ok := eq.Filters["status"].(string); ok && status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"status": status},
		})
	}

	// Availability score range. Zero bounds mean "unbounded" on that side.
	if availRange, ok := eq.Filters["availabilityRange"].(map[string]interface{}); ok {
		minRaw, minExists := availRange["min"]
		maxRaw, maxExists := availRange["max"]

		var minVal, maxVal float64
		if minExists {
			switch v := minRaw.(type) {
			case float64:
				minVal = v
			case int:
				minVal = float64(v)
			case int64:
				minVal = float64(v)
			}
		}
		if maxExists {
			switch v := maxRaw.(type) {
			case float64:
				maxVal = v
			case int:
				maxVal = float64(v)
			case int64:
				maxVal = float64(v)
			}
		}

		bounds := map[string]interface{}{}
		if minVal > 0 {
			bounds["gte"] = minVal
		}
		if maxVal > 0 {
			bounds["lte"] = maxVal
		}
		if len(bounds) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"availability_score": bounds},
			})
		}
	}

	// Use case filter
	if useCases, ok := eq.Filters["useCases"].([]interface{}); ok && len(useCases) > 0 {
		terms := make([]string, 0, len(useCases))
		for _, uc := range useCases {
			if s, ok := uc.(string); ok {
				terms = append(terms, s)
			}
		}
		if len(terms) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{"use_cases": terms},
			})
		}
	}

	// Default match_all if no keyword
	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	// Sorting logic
	if sortBy, ok := eq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "availability_score":
			query["sort"] = []map[string]interface{}{{"availability_score": "desc"}}
		case "name":
			query["sort"] = []map[string]interface{}{{"name": "asc"}}
		}
	}

	return query
}

// buildRelatedAdvocatesQuery builds "similar advocates" query
func buildRelatedAdvocatesQuery(eq ElasticsearchQuery) map[string]interface{} {
	if eq.AdvocateID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name", "bio", "expertise_areas"},
				"like": []map[string]interface{}{
					{"_index": eq.Index, "_id": eq.AdvocateID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

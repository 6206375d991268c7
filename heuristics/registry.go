package heuristics

import (
	"urlfeatures/features"
)

// Column names of the reference rule set, in output order.
const (
	HavingIPAddress          = "having_IP_Address"
	SSLFinalState            = "SSLfinal_State"
	URLOfAnchor              = "URL_of_Anchor"
	LinksInTags              = "Links_in_tags"
	HavingSubDomain          = "having_Sub_Domain"
	RequestURL               = "Request_URL"
	PrefixSuffix             = "Prefix_Suffix"
	DomainRegistrationLength = "Domain_registeration_length"
	SFH                      = "SFH"
	HTTPSToken               = "HTTPS_token"
	HavingAtSymbol           = "having_At_Symbol"
	URLLength                = "URL_Length"
	ShorteningService        = "Shortining_Service"
)

// Column names only present in the extended rule set.
const (
	AgeOfDomain = "age_of_domain"
	DNSRecord   = "DNSRecord"
)

// legacyNames are the header spellings of the UCI phishing websites dataset.
// nolint: gochecknoglobals
var legacyNames = map[string]string{
	HavingIPAddress: "having_IPhaving_IP_Address",
	URLLength:       "URLURL_Length",
}

type Option func(*options)

type options struct {
	legacyNames bool
}

// WithLegacyNames makes the rule set use the column spellings of the UCI
// phishing websites dataset, for classifiers trained on its raw header.
func WithLegacyNames() Option {
	return func(o *options) { o.legacyNames = true }
}

// Reference returns the 13 rules of the reference feature vector.
func Reference(deps Dependencies, opts ...Option) (*features.RuleSet, error) {
	deps = deps.withDefaults()
	if err := deps.validate(false); err != nil {
		return nil, err
	}

	return features.NewRuleSet(name(referenceRules(deps), opts)...)
}

// Extended returns the reference rules followed by the domain age and DNS
// record rules.
func Extended(deps Dependencies, opts ...Option) (*features.RuleSet, error) {
	deps = deps.withDefaults()
	if err := deps.validate(true); err != nil {
		return nil, err
	}

	rules := append(referenceRules(deps),
		features.Rule{Name: AgeOfDomain, Evaluator: domainAge{registrations: deps.Registrations, now: deps.Now}},
		features.Rule{Name: DNSRecord, Evaluator: dnsRecord{hosts: deps.Hosts}},
	)

	return features.NewRuleSet(name(rules, opts)...)
}

func referenceRules(deps Dependencies) []features.Rule {
	return []features.Rule{
		{Name: HavingIPAddress, Evaluator: features.EvaluatorFunc(hasIPAddress)},
		{Name: SSLFinalState, Evaluator: sslState{certificates: deps.Certificates}},
		{Name: URLOfAnchor, Evaluator: anchorShare{pages: deps.Pages}},
		{Name: LinksInTags, Evaluator: linkTagShare{pages: deps.Pages}},
		{Name: HavingSubDomain, Evaluator: features.EvaluatorFunc(classifySubDomain)},
		{Name: RequestURL, Evaluator: features.EvaluatorFunc(classifyRequestURL)},
		{Name: PrefixSuffix, Evaluator: features.EvaluatorFunc(checkPrefixSuffix)},
		{Name: DomainRegistrationLength, Evaluator: registrationLength{registrations: deps.Registrations, now: deps.Now}},
		{Name: SFH, Evaluator: serverFormHandler{pages: deps.Pages}},
		{Name: HTTPSToken, Evaluator: features.EvaluatorFunc(checkHTTPToken)},
		{Name: HavingAtSymbol, Evaluator: features.EvaluatorFunc(checkAtSymbol)},
		{Name: URLLength, Evaluator: features.EvaluatorFunc(classifyURLLength)},
		{Name: ShorteningService, Evaluator: newShorteningService(deps.Shorteners)},
	}
}

func name(rules []features.Rule, opts []Option) []features.Rule {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !o.legacyNames {
		return rules
	}

	for idx, rule := range rules {
		if legacy, ok := legacyNames[rule.Name]; ok {
			rules[idx].Name = legacy
		}
	}

	return rules
}

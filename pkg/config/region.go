package config

import "strings"

// RegionKind classifies where a machine runs
type RegionKind int

const (
	// RegionOther is any region dotboot has no special handling for
	RegionOther RegionKind = iota
	// RegionHome is the home network
	RegionHome
	// RegionAWS is "aws-" followed by an AWS region name
	RegionAWS
)

const (
	regionHome      = "home"
	regionAWSPrefix = "aws-"
)

// Region is a parsed region name
type Region struct {
	Kind RegionKind
	name string
}

// ParseRegion parses "home", "aws-<region>" or anything else.
func ParseRegion(name string) Region {
	switch {
	case name == regionHome:
		return Region{Kind: RegionHome, name: name}
	case strings.HasPrefix(name, regionAWSPrefix) && len(name) > len(regionAWSPrefix):
		return Region{Kind: RegionAWS, name: name}
	default:
		return Region{Kind: RegionOther, name: name}
	}
}

// String returns the region name as configured
func (r Region) String() string {
	return r.name
}

// ParsedRegion returns the configured region, parsed
func (c *Config) ParsedRegion() Region {
	return ParseRegion(c.Region)
}

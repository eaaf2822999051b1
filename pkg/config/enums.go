package config

import (
	"fmt"
	"strconv"
)

// BCCMode selects when the clustering oracle is consulted.
type BCCMode int

const (
	// NoClustering never calls the oracle.
	NoClustering BCCMode = iota
	// TopLevel clusters the input graph once before coarsening.
	TopLevel
	// MultiLevel clusters every level during coarsening.
	MultiLevel
)

func (m BCCMode) String() string {
	switch m {
	case NoClustering:
		return "BCC_NO_CLUSTERING"
	case TopLevel:
		return "BCC_TOPLEVEL"
	case MultiLevel:
		return "BCC_MULTILEVEL"
	default:
		return strconv.Itoa(int(m))
	}
}

// Valid reports whether m is a known clustering mode.
func (m BCCMode) Valid() bool {
	return m == NoClustering || m == TopLevel || m == MultiLevel
}

// ParseBCCMode parses the command line names no_clustering, toplevel and
// multilevel.
func ParseBCCMode(name string) (BCCMode, error) {
	switch name {
	case "no_clustering":
		return NoClustering, nil
	case "toplevel":
		return TopLevel, nil
	case "multilevel":
		return MultiLevel, nil
	default:
		return 0, fmt.Errorf("%w: clustering mode %q", ErrInvalidValue, name)
	}
}

// CombineMode selects which partition slot receives a clustering.
type CombineMode int

const (
	// FirstPartitionIndex uses the clustering as the coarse mapping.
	FirstPartitionIndex CombineMode = iota
	// SecondPartitionIndex uses the clustering as a matching constraint.
	SecondPartitionIndex
)

func (m CombineMode) String() string {
	switch m {
	case FirstPartitionIndex:
		return "BCC_FIRST_PARTITION_INDEX"
	case SecondPartitionIndex:
		return "BCC_SECOND_PARTITION_INDEX"
	default:
		return strconv.Itoa(int(m))
	}
}

// Valid reports whether m is a known combine mode.
func (m CombineMode) Valid() bool {
	return m == FirstPartitionIndex || m == SecondPartitionIndex
}

// ParseCombineMode parses first and second.
func ParseCombineMode(name string) (CombineMode, error) {
	switch name {
	case "first":
		return FirstPartitionIndex, nil
	case "second":
		return SecondPartitionIndex, nil
	default:
		return 0, fmt.Errorf("%w: combine mode %q", ErrInvalidValue, name)
	}
}

// VieClusMode selects the oracle entry point.
type VieClusMode int

const (
	VieClusNormal VieClusMode = iota
	VieClusShallow
	VieClusShallowNoLP
)

func (m VieClusMode) String() string {
	switch m {
	case VieClusNormal:
		return "VIECLUS_NORMAL"
	case VieClusShallow:
		return "VIECLUS_SHALLOW"
	case VieClusShallowNoLP:
		return "VIECLUS_SHALLOW_NO_LP"
	default:
		return strconv.Itoa(int(m))
	}
}

// Valid reports whether m is a known oracle variant.
func (m VieClusMode) Valid() bool {
	return m >= VieClusNormal && m <= VieClusShallowNoLP
}

// ParseVieClusMode parses default, shallow and shallownolp.
func ParseVieClusMode(name string) (VieClusMode, error) {
	switch name {
	case "default":
		return VieClusNormal, nil
	case "shallow":
		return VieClusShallow, nil
	case "shallownolp":
		return VieClusShallowNoLP, nil
	default:
		return 0, fmt.Errorf("%w: vieclus mode %q", ErrInvalidValue, name)
	}
}

// MatchingType selects the matching algorithm. ClusterCoarsening is the
// synthetic value used for levels whose mapping comes from a clustering.
type MatchingType int

const (
	MatchingRandom MatchingType = iota
	MatchingGPA
	MatchingRandomGPA
	ClusterCoarsening
)

func (m MatchingType) String() string {
	switch m {
	case MatchingRandom:
		return "MATCHING_RANDOM"
	case MatchingGPA:
		return "MATCHING_GPA"
	case MatchingRandomGPA:
		return "MATCHING_RANDOM_GPA"
	case ClusterCoarsening:
		return "CLUSTER_COARSENING"
	default:
		return strconv.Itoa(int(m))
	}
}

// ParseMatchingType parses random, gpa and randomgpa.
func ParseMatchingType(name string) (MatchingType, error) {
	switch name {
	case "random":
		return MatchingRandom, nil
	case "gpa":
		return MatchingGPA, nil
	case "randomgpa":
		return MatchingRandomGPA, nil
	default:
		return 0, fmt.Errorf("%w: matching type %q", ErrInvalidValue, name)
	}
}

// EdgeRating selects the edge rating heuristic.
type EdgeRating int

const (
	ExpansionStar EdgeRating = iota
	ExpansionStar2
	Weight
	RealWeight
)

func (r EdgeRating) String() string {
	switch r {
	case ExpansionStar:
		return "EXPANSIONSTAR"
	case ExpansionStar2:
		return "EXPANSIONSTAR2"
	case Weight:
		return "WEIGHT"
	case RealWeight:
		return "REALWEIGHT"
	default:
		return strconv.Itoa(int(r))
	}
}

// ParseEdgeRating parses expansionstar, expansionstar2, weight and realweight.
func ParseEdgeRating(name string) (EdgeRating, error) {
	switch name {
	case "expansionstar":
		return ExpansionStar, nil
	case "expansionstar2":
		return ExpansionStar2, nil
	case "weight":
		return Weight, nil
	case "realweight":
		return RealWeight, nil
	default:
		return 0, fmt.Errorf("%w: edge rating %q", ErrInvalidValue, name)
	}
}

// StopRule selects when coarsening stops.
type StopRule int

const (
	StopRuleSimple StopRule = iota
	StopRuleMultipleK
	StopRuleStrong
)

func (r StopRule) String() string {
	switch r {
	case StopRuleSimple:
		return "STOP_RULE_SIMPLE"
	case StopRuleMultipleK:
		return "STOP_RULE_MULTIPLE_K"
	case StopRuleStrong:
		return "STOP_RULE_STRONG"
	default:
		return strconv.Itoa(int(r))
	}
}

// ParseStopRule parses simple, multiplek and strong.
func ParseStopRule(name string) (StopRule, error) {
	switch name {
	case "simple":
		return StopRuleSimple, nil
	case "multiplek":
		return StopRuleMultipleK, nil
	case "strong":
		return StopRuleStrong, nil
	default:
		return 0, fmt.Errorf("%w: stop rule %q", ErrInvalidValue, name)
	}
}

package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the variant store and
	its associated services.
*/
type AssemblyId string
type Caller string
type Requirement string
type CoverageLayout string
type IngestionKind string

type Outcome int

package domain

// PipelineID identifies a domain-specific knowledge base with its own
// isolated vector index.
type PipelineID string

const (
	PipelineEquipmentVehicle PipelineID = "equipment-vehicle-rag"
	PipelineGeneralLending   PipelineID = "general-lending-rag"
	PipelineRealEstate       PipelineID = "real-estate-rag"
	PipelineSBA              PipelineID = "sba-rag"
)

// Pipelines returns all recognized pipeline ids in a stable order.
func Pipelines() []PipelineID {
	return []PipelineID{
		PipelineEquipmentVehicle,
		PipelineGeneralLending,
		PipelineRealEstate,
		PipelineSBA,
	}
}

// Valid reports whether p is one of the recognized pipeline ids.
func (p PipelineID) Valid() bool {
	switch p {
	case PipelineEquipmentVehicle, PipelineGeneralLending, PipelineRealEstate, PipelineSBA:
		return true
	}
	return false
}

// Description returns a human-readable name for the pipeline's lending domain.
func (p PipelineID) Description() string {
	switch p {
	case PipelineEquipmentVehicle:
		return "equipment and vehicle lending"
	case PipelineGeneralLending:
		return "general lending"
	case PipelineRealEstate:
		return "real estate lending"
	case PipelineSBA:
		return "SBA lending"
	default:
		return "lending"
	}
}

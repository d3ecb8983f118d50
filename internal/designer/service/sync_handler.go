package service

import (
	"strings"

	"studio/internal/designer/models"
)

type sharedObject interface {
	comparable
	models.SharedObject
}

// syncHandler knows where one shared object kind lives in jobs and
// transformations and how to copy one instance onto another.
type syncHandler[T sharedObject] interface {
	kind() models.SharedObjectKind
	fromJob(job *models.JobMeta) []T
	fromTrans(trans *models.TransMeta) []T
	// replace copies the content of source onto target in place. owner is
	// the document holding target.
	replace(source, target T, owner models.Document)
	removeFromJob(job *models.JobMeta, victim T) bool
	removeFromTrans(trans *models.TransMeta, victim T) bool
	// syncsByID reports whether the kind takes part in ID based synchronization.
	syncsByID() bool
	// sameName reports whether two names denote the same object when deleting.
	sameName(a, b string) bool
}

type connectionHandler struct{}

func (connectionHandler) kind() models.SharedObjectKind { return models.KindConnection }
func (connectionHandler) syncsByID() bool               { return true }
func (connectionHandler) sameName(a, b string) bool     { return a == b }

func (connectionHandler) fromJob(job *models.JobMeta) []*models.DatabaseMeta {
	return job.GetDatabases()
}

func (connectionHandler) fromTrans(trans *models.TransMeta) []*models.DatabaseMeta {
	return trans.GetDatabases()
}

func (connectionHandler) replace(source, target *models.DatabaseMeta, _ models.Document) {
	target.ReplaceMeta(source)
}

func (connectionHandler) removeFromJob(job *models.JobMeta, victim *models.DatabaseMeta) bool {
	return job.RemoveDatabase(victim)
}

func (connectionHandler) removeFromTrans(trans *models.TransMeta, victim *models.DatabaseMeta) bool {
	return trans.RemoveDatabase(victim)
}

type slaveServerHandler struct{}

func (slaveServerHandler) kind() models.SharedObjectKind { return models.KindSlaveServer }
func (slaveServerHandler) syncsByID() bool               { return true }
func (slaveServerHandler) sameName(a, b string) bool     { return strings.EqualFold(a, b) }

func (slaveServerHandler) fromJob(job *models.JobMeta) []*models.SlaveServer {
	return job.GetSlaveServers()
}

func (slaveServerHandler) fromTrans(trans *models.TransMeta) []*models.SlaveServer {
	return trans.GetSlaveServers()
}

func (slaveServerHandler) replace(source, target *models.SlaveServer, _ models.Document) {
	target.ReplaceMeta(source)
}

func (slaveServerHandler) removeFromJob(job *models.JobMeta, victim *models.SlaveServer) bool {
	return job.RemoveSlaveServer(victim)
}

func (slaveServerHandler) removeFromTrans(trans *models.TransMeta, victim *models.SlaveServer) bool {
	return trans.RemoveSlaveServer(victim)
}

type clusterSchemaHandler struct{}

func (clusterSchemaHandler) kind() models.SharedObjectKind { return models.KindClusterSchema }
func (clusterSchemaHandler) syncsByID() bool               { return true }
func (clusterSchemaHandler) sameName(a, b string) bool     { return a == b }

func (clusterSchemaHandler) fromJob(*models.JobMeta) []*models.ClusterSchema {
	return nil
}

func (clusterSchemaHandler) fromTrans(trans *models.TransMeta) []*models.ClusterSchema {
	return trans.GetClusterSchemas()
}

// replace also re-points the copied slave server references at the owning
// transformation's own servers.
func (clusterSchemaHandler) replace(source, target *models.ClusterSchema, owner models.Document) {
	target.ReplaceMeta(source)
	if trans, ok := owner.(*models.TransMeta); ok {
		trans.ResolveClusterSlaveServers(target)
	}
}

func (clusterSchemaHandler) removeFromJob(*models.JobMeta, *models.ClusterSchema) bool {
	return false
}

func (clusterSchemaHandler) removeFromTrans(trans *models.TransMeta, victim *models.ClusterSchema) bool {
	return trans.RemoveClusterSchema(victim)
}

type partitionSchemaHandler struct{}

func (partitionSchemaHandler) kind() models.SharedObjectKind { return models.KindPartitionSchema }
func (partitionSchemaHandler) syncsByID() bool               { return true }
func (partitionSchemaHandler) sameName(a, b string) bool     { return a == b }

func (partitionSchemaHandler) fromJob(*models.JobMeta) []*models.PartitionSchema {
	return nil
}

func (partitionSchemaHandler) fromTrans(trans *models.TransMeta) []*models.PartitionSchema {
	return trans.GetPartitionSchemas()
}

func (partitionSchemaHandler) replace(source, target *models.PartitionSchema, _ models.Document) {
	target.ReplaceMeta(source)
}

func (partitionSchemaHandler) removeFromJob(*models.JobMeta, *models.PartitionSchema) bool {
	return false
}

func (partitionSchemaHandler) removeFromTrans(trans *models.TransMeta, victim *models.PartitionSchema) bool {
	return trans.RemovePartitionSchema(victim)
}

// stepHandler only syncs by name: jobs have no steps and steps are never
// refreshed through their repository ID.
type stepHandler struct{}

func (stepHandler) kind() models.SharedObjectKind { return models.KindStep }
func (stepHandler) syncsByID() bool               { return false }
func (stepHandler) sameName(a, b string) bool     { return strings.EqualFold(a, b) }

func (stepHandler) fromJob(*models.JobMeta) []*models.StepMeta {
	return nil
}

func (stepHandler) fromTrans(trans *models.TransMeta) []*models.StepMeta {
	return trans.GetSteps()
}

func (stepHandler) replace(source, target *models.StepMeta, _ models.Document) {
	target.ReplaceMeta(source)
}

func (stepHandler) removeFromJob(*models.JobMeta, *models.StepMeta) bool {
	return false
}

func (stepHandler) removeFromTrans(trans *models.TransMeta, victim *models.StepMeta) bool {
	return trans.RemoveStep(victim)
}

var (
	connectionSync      syncHandler[*models.DatabaseMeta]    = connectionHandler{}
	slaveServerSync     syncHandler[*models.SlaveServer]     = slaveServerHandler{}
	clusterSchemaSync   syncHandler[*models.ClusterSchema]   = clusterSchemaHandler{}
	partitionSchemaSync syncHandler[*models.PartitionSchema] = partitionSchemaHandler{}
	stepSync            syncHandler[*models.StepMeta]        = stepHandler{}
)

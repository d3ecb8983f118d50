package models

// JobMeta is an open job. Jobs only hold connections and slave servers.
type JobMeta struct {
	documentBase

	databases    []*DatabaseMeta
	slaveServers []*SlaveServer
}

func NewJobMeta(name string) *JobMeta {
	return &JobMeta{documentBase: newDocumentBase(name)}
}

func (slf *JobMeta) Type() DocumentType { return DocumentTypeJob }

func (slf *JobMeta) GetDatabases() []*DatabaseMeta   { return slf.databases }
func (slf *JobMeta) GetSlaveServers() []*SlaveServer { return slf.slaveServers }

func (slf *JobMeta) AddOrReplaceDatabase(db *DatabaseMeta) *DatabaseMeta {
	var kept *DatabaseMeta
	slf.databases, kept = addOrReplace(slf.databases, db)
	slf.changed = true
	return kept
}

func (slf *JobMeta) AddOrReplaceSlaveServer(server *SlaveServer) *SlaveServer {
	var kept *SlaveServer
	slf.slaveServers, kept = addOrReplace(slf.slaveServers, server)
	slf.changed = true
	return kept
}

func (slf *JobMeta) RemoveDatabase(db *DatabaseMeta) bool {
	var removed bool
	slf.databases, removed = removeInstance(slf.databases, db)
	slf.changed = slf.changed || removed
	return removed
}

func (slf *JobMeta) RemoveSlaveServer(server *SlaveServer) bool {
	var removed bool
	slf.slaveServers, removed = removeInstance(slf.slaveServers, server)
	slf.changed = slf.changed || removed
	return removed
}

func (slf *JobMeta) FindDatabase(name string) (*DatabaseMeta, bool) {
	return findByName(slf.databases, name)
}

func (slf *JobMeta) FindSlaveServer(name string) (*SlaveServer, bool) {
	return findByName(slf.slaveServers, name)
}

func (slf *JobMeta) SharedObjects() []SharedObject {
	var shared []SharedObject
	shared = appendShared(shared, slf.databases)
	shared = appendShared(shared, slf.slaveServers)
	return shared
}

func (slf *JobMeta) SaveSharedObjects() error {
	return slf.saveSharedObjects(slf.SharedObjects())
}

// ReloadSharedObjects merges the connections and slave servers of the bound
// store into the job. Kinds a job cannot hold are skipped.
func (slf *JobMeta) ReloadSharedObjects() error {
	objects, err := slf.loadSharedObjects()
	if err != nil {
		return err
	}
	for _, object := range objects {
		switch obj := object.(type) {
		case *DatabaseMeta:
			slf.AddOrReplaceDatabase(obj)
		case *SlaveServer:
			slf.AddOrReplaceSlaveServer(obj)
		}
	}
	return nil
}

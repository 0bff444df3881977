package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// ReadWriteClient separa leituras (réplica) de escritas (primário). A escrita
// do grafo passa sempre pelo writePool; o cycle check da mutação também, para
// não validar contra uma réplica atrasada.
type ReadWriteClient struct {
	readPool  *pgxpool.Pool
	writePool *pgxpool.Pool
}

func NewReadWriteClient(
	readHost string,
	writeHost string,
	readPort string,
	writePort string,
	dbname string,
	username string,
	password string,
	maxConnections int,
) (*ReadWriteClient, error) {

	readPool, err := NewPostgresClient(readHost, readPort, dbname, username, password, maxConnections)
	if err != nil {
		return nil, err
	}

	writePool, err := NewPostgresClient(writeHost, writePort, dbname, username, password, maxConnections)
	if err != nil {
		readPool.Close()
		return nil, err
	}

	return &ReadWriteClient{
		readPool:  readPool,
		writePool: writePool,
	}, nil
}

func (rwc *ReadWriteClient) GetReadPool() *pgxpool.Pool {
	return rwc.readPool
}

func (rwc *ReadWriteClient) GetWritePool() *pgxpool.Pool {
	return rwc.writePool
}

func (rwc *ReadWriteClient) Close() {
	if rwc.readPool != nil {
		rwc.readPool.Close()
	}

	if rwc.writePool != nil {
		rwc.writePool.Close()
	}
}

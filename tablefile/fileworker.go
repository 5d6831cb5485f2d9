// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package tablefile

// SaveJob is one unit of work the file worker lane serializes: persist
// assigned under path with the given metadata header.
type SaveJob struct {
	Path      string
	Vertices  uint64
	Assigned  []uint32
	Header    Header
	Done      chan<- error
}

// Worker drains jobs off a channel one at a time, so that extension,
// mapping, copying, and truncation of a table file always happen in a
// single well-defined order even if multiple builds finish around the
// same time.
func Worker(jobs <-chan SaveJob) {
	for job := range jobs {
		job.Done <- runJob(job)
	}
}

func runJob(job SaveJob) error {
	t, err := Prepare(job.Path, job.Vertices)
	if err != nil {
		return err
	}
	if err := t.Save(job.Assigned, job.Header); err != nil {
		t.Close()
		return err
	}
	return t.Close()
}

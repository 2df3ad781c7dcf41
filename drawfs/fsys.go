// Package drawfs serves a drawing session as a 9P2000 file tree.
//
// The tree is flat:
//
//	/canvas  read: the rendered grid; write: replace the grid with the
//	         written picture (applied when the fid is clunked)
//	/ctl     write: one command per line, as typed at the console
//	/info    read: canvas size and pen
//	/log     read: the drawing commands applied so far, one per line
//
// A command that fails to parse or execute is returned as an Rerror.
// QUIT is refused, also from a READ file: the session belongs to the
// console.
package drawfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"9fans.net/go/plan9"
	"github.com/sirupsen/logrus"

	"github.com/elizafairlady/asciidraw/command"
	"github.com/elizafairlady/asciidraw/session"
)

// Qid paths.
const (
	Qdir = iota
	Qcanvas
	Qctl
	Qinfo
	Qlog
)

// ErrUploadTooLarge is returned for a canvas write that cannot fit the
// session's largest canvas.
var ErrUploadTooLarge = errors.New("canvas upload too large")

type dirtab struct {
	name string
	qtyp uint8
	path uint64
	perm plan9.Perm
}

var root = dirtab{".", plan9.QTDIR, Qdir, plan9.DMDIR | 0555}

var rootDir = []dirtab{
	{"canvas", plan9.QTFILE, Qcanvas, 0644},
	{"ctl", plan9.QTFILE, Qctl, 0200},
	{"info", plan9.QTFILE, Qinfo, 0444},
	{"log", plan9.QTFILE, Qlog, 0444},
}

func lookup(path uint64) *dirtab {
	if path == Qdir {
		return &root
	}
	for i := range rootDir {
		if rootDir[i].path == path {
			return &rootDir[i]
		}
	}
	return nil
}

func (d *dirtab) qid() plan9.Qid {
	return plan9.Qid{Path: d.path, Type: d.qtyp}
}

// fid tracks the state of a file handle on one connection.
type fid struct {
	qid    plan9.Qid
	open   bool
	mode   uint8
	data   []byte // snapshot served to reads, taken at open
	upload []byte // pending canvas write
	dirty  bool
}

// Server serves one session to any number of 9P connections.
type Server struct {
	sess  *session.Session
	log   *logrus.Entry
	start uint32
}

// NewServer returns a server for sess.
func NewServer(sess *session.Session, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.WithField("component", "drawfs")
	}
	return &Server{
		sess:  sess,
		log:   log,
		start: uint32(time.Now().Unix()),
	}
}

// conn handles a single 9P connection.
type conn struct {
	srv   *Server
	rwc   io.ReadWriteCloser
	log   *logrus.Entry
	msize uint32

	mu   sync.Mutex
	fids map[uint32]*fid
}

// Serve handles 9P messages on rwc until it fails or is closed.
func (s *Server) Serve(rwc io.ReadWriteCloser) {
	c := &conn{
		srv:   s,
		rwc:   rwc,
		log:   s.log,
		msize: 8192 + plan9.IOHDRSIZE,
		fids:  make(map[uint32]*fid),
	}
	if nc, ok := rwc.(net.Conn); ok {
		c.log = s.log.WithField("remote", nc.RemoteAddr().String())
	}
	c.serve()
}

// ListenAndServe accepts connections on addr until ctx is done.
// The address is "unix!path", "tcp!host!port" or "host:port".
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	network, address := splitAddr(addr)
	ln, err := net.Listen(network, address)
	if err != nil {
		return fmt.Errorf("drawfs: listen %s: %w", addr, err)
	}
	s.log.WithField("addr", addr).Info("listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		nc, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("drawfs: accept: %w", err)
		}
		go s.Serve(nc)
	}
}

func splitAddr(addr string) (network, address string) {
	f := strings.Split(addr, "!")
	switch {
	case len(f) == 2 && f[0] == "unix":
		return "unix", f[1]
	case len(f) == 3 && f[0] == "tcp":
		return "tcp", net.JoinHostPort(f[1], f[2])
	}
	return "tcp", addr
}

func (c *conn) getFid(id uint32) *fid {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fids[id]
}

func (c *conn) setFid(id uint32, f *fid) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fids[id] = f
}

func (c *conn) delFid(id uint32) *fid {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.fids[id]
	delete(c.fids, id)
	return f
}

func (c *conn) serve() {
	defer c.rwc.Close()
	for {
		tx, err := plan9.ReadFcall(c.rwc)
		if err != nil {
			if err != io.EOF {
				c.log.WithError(err).Warn("read fcall")
			}
			return
		}
		rx := c.handle(tx)
		rx.Tag = tx.Tag
		if err := plan9.WriteFcall(c.rwc, rx); err != nil {
			c.log.WithError(err).Warn("write fcall")
			return
		}
	}
}

func (c *conn) handle(tx *plan9.Fcall) *plan9.Fcall {
	switch tx.Type {
	case plan9.Tversion:
		return c.tversion(tx)
	case plan9.Tauth:
		return rerror("authentication not required")
	case plan9.Tattach:
		return c.tattach(tx)
	case plan9.Tflush:
		return &plan9.Fcall{Type: plan9.Rflush}
	case plan9.Twalk:
		return c.twalk(tx)
	case plan9.Topen:
		return c.topen(tx)
	case plan9.Tcreate:
		return rerror("create prohibited")
	case plan9.Tread:
		return c.tread(tx)
	case plan9.Twrite:
		return c.twrite(tx)
	case plan9.Tclunk:
		return c.tclunk(tx)
	case plan9.Tremove:
		return rerror("remove prohibited")
	case plan9.Tstat:
		return c.tstat(tx)
	case plan9.Twstat:
		return rerror("wstat prohibited")
	default:
		return rerror(fmt.Sprintf("unknown message type %d", tx.Type))
	}
}

func rerror(msg string) *plan9.Fcall {
	return &plan9.Fcall{Type: plan9.Rerror, Ename: msg}
}

func (c *conn) tversion(tx *plan9.Fcall) *plan9.Fcall {
	c.msize = tx.Msize
	if c.msize > 65536 {
		c.msize = 65536
	}
	version := plan9.VERSION9P
	if !strings.HasPrefix(tx.Version, "9P2000") {
		version = "unknown"
	}
	return &plan9.Fcall{
		Type:    plan9.Rversion,
		Msize:   c.msize,
		Version: version,
	}
}

func (c *conn) tattach(tx *plan9.Fcall) *plan9.Fcall {
	c.setFid(tx.Fid, &fid{qid: root.qid()})
	return &plan9.Fcall{
		Type: plan9.Rattach,
		Qid:  root.qid(),
	}
}

func (c *conn) twalk(tx *plan9.Fcall) *plan9.Fcall {
	f := c.getFid(tx.Fid)
	if f == nil {
		return rerror("unknown fid")
	}
	if f.open {
		return rerror("cannot walk open fid")
	}

	cur := f.qid
	wqid := make([]plan9.Qid, 0, len(tx.Wname))
	for _, name := range tx.Wname {
		if cur.Type&plan9.QTDIR == 0 {
			break
		}
		next, ok := walk1(name)
		if !ok {
			if len(wqid) == 0 {
				return rerror("file not found")
			}
			break
		}
		cur = next
		wqid = append(wqid, cur)
	}
	if len(wqid) == len(tx.Wname) {
		c.setFid(tx.Newfid, &fid{qid: cur})
	}
	return &plan9.Fcall{
		Type: plan9.Rwalk,
		Wqid: wqid,
	}
}

func walk1(name string) (plan9.Qid, bool) {
	if name == ".." {
		return root.qid(), true
	}
	for _, d := range rootDir {
		if d.name == name {
			return d.qid(), true
		}
	}
	return plan9.Qid{}, false
}

func (c *conn) topen(tx *plan9.Fcall) *plan9.Fcall {
	f := c.getFid(tx.Fid)
	if f == nil {
		return rerror("unknown fid")
	}
	d := lookup(f.qid.Path)
	if d == nil {
		return rerror("unknown qid")
	}
	if !allowed(d.perm, tx.Mode) {
		return rerror("permission denied")
	}
	f.open = true
	f.mode = tx.Mode
	if tx.Mode&3 != plan9.OWRITE {
		f.data = c.srv.contents(f.qid.Path)
	}
	return &plan9.Fcall{
		Type:   plan9.Ropen,
		Qid:    f.qid,
		Iounit: c.msize - plan9.IOHDRSIZE,
	}
}

// allowed checks an open mode against the owner permission bits.
func allowed(perm plan9.Perm, mode uint8) bool {
	var need plan9.Perm
	switch mode & 3 {
	case plan9.OREAD:
		need = 0400
	case plan9.OWRITE:
		need = 0200
	case plan9.ORDWR:
		need = 0600
	case plan9.OEXEC:
		need = 0100
	}
	if mode&plan9.OTRUNC != 0 {
		need |= 0200
	}
	return perm&need == need
}

// contents returns the bytes a read of path serves.
func (s *Server) contents(path uint64) []byte {
	switch path {
	case Qdir:
		var b []byte
		for i := range rootDir {
			b = append(b, s.dirBytes(&rootDir[i])...)
		}
		return b
	case Qcanvas:
		return []byte(s.sess.Render())
	case Qinfo:
		return []byte(s.sess.Info() + "\n")
	case Qlog:
		var b strings.Builder
		for _, cmd := range s.sess.History() {
			b.WriteString(cmd.String())
			b.WriteByte('\n')
		}
		return []byte(b.String())
	}
	return nil
}

func (s *Server) dir(d *dirtab) *plan9.Dir {
	dir := &plan9.Dir{
		Qid:   d.qid(),
		Mode:  d.perm,
		Atime: s.start,
		Mtime: s.start,
		Name:  d.name,
		Uid:   "none",
		Gid:   "none",
		Muid:  "none",
	}
	if d.qtyp != plan9.QTDIR {
		dir.Length = uint64(len(s.contents(d.path)))
	}
	return dir
}

func (s *Server) dirBytes(d *dirtab) []byte {
	b, _ := s.dir(d).Bytes()
	return b
}

func (c *conn) tread(tx *plan9.Fcall) *plan9.Fcall {
	f := c.getFid(tx.Fid)
	if f == nil {
		return rerror("unknown fid")
	}
	if !f.open || f.mode&3 == plan9.OWRITE {
		return rerror("fid not open for reading")
	}
	var data []byte
	if f.qid.Path == Qdir {
		data = dirRead(f.data, tx.Offset, tx.Count)
	} else {
		data = sliceRead(f.data, tx.Offset, tx.Count)
	}
	return &plan9.Fcall{
		Type: plan9.Rread,
		Data: data,
	}
}

func sliceRead(data []byte, offset uint64, count uint32) []byte {
	if offset >= uint64(len(data)) {
		return nil
	}
	data = data[offset:]
	if uint64(len(data)) > uint64(count) {
		data = data[:count]
	}
	return data
}

// dirRead returns the whole directory entries starting at offset that
// fit in count bytes.
func dirRead(data []byte, offset uint64, count uint32) []byte {
	if offset >= uint64(len(data)) {
		return nil
	}
	data = data[offset:]
	n := 0
	for n+2 <= len(data) {
		size := int(data[n]) | int(data[n+1])<<8
		if n+2+size > int(count) {
			break
		}
		n += 2 + size
	}
	return data[:n]
}

func (c *conn) twrite(tx *plan9.Fcall) *plan9.Fcall {
	f := c.getFid(tx.Fid)
	if f == nil {
		return rerror("unknown fid")
	}
	if !f.open || f.mode&3 == plan9.OREAD {
		return rerror("fid not open for writing")
	}
	switch f.qid.Path {
	case Qctl:
		if err := c.srv.ctl(string(tx.Data)); err != nil {
			c.log.WithError(err).Info("ctl write rejected")
			return rerror(err.Error())
		}
	case Qcanvas:
		if limit := maxUpload(c.srv.sess.MaxDimension()); limit > 0 && len(f.upload)+len(tx.Data) > limit {
			f.upload, f.dirty = nil, false
			return rerror(ErrUploadTooLarge.Error())
		}
		f.upload = append(f.upload, tx.Data...)
		f.dirty = true
	default:
		return rerror("permission denied")
	}
	return &plan9.Fcall{
		Type:  plan9.Rwrite,
		Count: uint32(len(tx.Data)),
	}
}

// maxUpload bounds the bytes of a picture no larger than dim cells on
// a side: dim rows of dim runes, each row ended by CRLF.
func maxUpload(dim int) int {
	if dim <= 0 {
		return 0
	}
	return dim * (dim*utf8.UTFMax + 2)
}

// ctl executes each line of a ctl write, stopping at the first error.
func (s *Server) ctl(text string) error {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := command.Parse(line)
		if err != nil {
			return err
		}
		if err := s.sess.ExecuteDetached(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (c *conn) tclunk(tx *plan9.Fcall) *plan9.Fcall {
	f := c.delFid(tx.Fid)
	if f == nil {
		return rerror("unknown fid")
	}
	if f.qid.Path == Qcanvas && f.dirty {
		if err := c.srv.sess.Load(string(f.upload)); err != nil {
			return rerror(err.Error())
		}
	}
	return &plan9.Fcall{Type: plan9.Rclunk}
}

func (c *conn) tstat(tx *plan9.Fcall) *plan9.Fcall {
	f := c.getFid(tx.Fid)
	if f == nil {
		return rerror("unknown fid")
	}
	d := lookup(f.qid.Path)
	if d == nil {
		return rerror("unknown qid")
	}
	return &plan9.Fcall{
		Type: plan9.Rstat,
		Stat: c.srv.dirBytes(d),
	}
}
